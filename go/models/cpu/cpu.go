package cpu

// This interface abstracts the word-addressed memory the hook engine needs.
// Both methods are untracked: they never fire hooks and never invalidate
// cached code, so hooks can touch memory without recursing into dispatch.
type Memory interface {
	// ReadWord reads the aligned word containing addr.
	ReadWord(addr uint32) (uint32, error)
	// WriteWord replaces the bits of the aligned word containing addr selected by mask.
	WriteWord(addr, value, mask uint32) error
}

// Core is the live processor context hooks observe and mutate.
type Core interface {
	Memory
	// Regs returns the live register file. Callers may write through it.
	Regs() *Regs
}

// Cores implementing Dumpable expose their RDRAM words for diagnostic dumps.
type Dumpable interface {
	RDRAM() []uint32
}

// Dispatcher receives the interception events raised by a Core.
// Every method may be called with a nil core, which must be ignored.
type Dispatcher interface {
	OnPC(c Core) error
	OnInput(c Core, buttons uint32) error
	OnRAMRead(c Core, addr uint32) error
	OnRAMWrite(c Core, addr uint32, value, mask uint64) error
	OnCartRead(c Core, base, length, dst uint32) error
	OnCartWrite(c Core, base, length, dst uint32) error
}
