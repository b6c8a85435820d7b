package hooks

import (
	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

// State is the processor state hooks see for one event.
// Registers are a copy taken when the event fired; the Engine writes them
// back once every hook has run. Memory accesses go straight to the core's
// untracked accessors, so they never fire hooks themselves.
type State struct {
	cpu.Regs
	core cpu.Core
}

func newState(core cpu.Core) *State {
	return &State{Regs: *core.Regs(), core: core}
}

func (s *State) commit() {
	*s.core.Regs() = s.Regs
}

// Core returns the processor the state was taken from.
func (s *State) Core() cpu.Core {
	return s.core
}

// Read32 reads the big-endian word starting at any byte address.
// Unaligned reads combine the two words the access straddles.
func (s *State) Read32(addr uint32) (uint32, error) {
	align := addr & 3
	if align == 0 {
		return s.core.ReadWord(addr)
	}
	left, err := s.core.ReadWord(addr &^ 3)
	if err != nil {
		return 0, err
	}
	right, err := s.core.ReadWord(addr&^3 + 4)
	if err != nil {
		return 0, err
	}
	shift := align * 8
	return left<<shift | right>>(32-shift), nil
}

// Read16 returns the top 16 bits of the word read starting at addr.
func (s *State) Read16(addr uint32) (uint16, error) {
	v, err := s.Read32(addr)
	return uint16(v >> 16), err
}

// Read8 returns the top 8 bits of the word read starting at addr.
func (s *State) Read8(addr uint32) (uint8, error) {
	v, err := s.Read32(addr)
	return uint8(v >> 24), err
}

// Write32 stores the bits of value selected by mask into the word starting at addr.
// Unaligned writes are split into two masked aligned writes, shifted the
// same way Read32 recombines them.
func (s *State) Write32(addr, value, mask uint32) error {
	align := addr & 3
	if align == 0 {
		return s.core.WriteWord(addr, value, mask)
	}
	// both words must be reachable before either changes
	for _, a := range []uint32{addr &^ 3, addr&^3 + 4} {
		if _, err := s.core.ReadWord(a); err != nil {
			return err
		}
	}
	shift := align * 8
	full := ^uint32(0)
	leftMask := full >> shift & (mask >> shift)
	rightMask := full << (32 - shift) & (mask << (32 - shift))
	if err := s.core.WriteWord(addr&^3, value>>shift, leftMask); err != nil {
		return err
	}
	return s.core.WriteWord(addr&^3+4, value<<(32-shift), rightMask)
}

// Write16 writes the half-word window Read16 reads.
func (s *State) Write16(addr uint32, value, mask uint16) error {
	return s.Write32(addr, uint32(value)<<16, uint32(mask)<<16)
}

// Write8 writes the byte window Read8 reads.
func (s *State) Write8(addr uint32, value, mask uint8) error {
	return s.Write32(addr, uint32(value)<<24, uint32(mask)<<24)
}
