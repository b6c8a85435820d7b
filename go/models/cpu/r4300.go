package cpu

import (
	"github.com/pkg/errors"
)

// R4300 is a minimal processor context: registers, RDRAM and cartridge ROM,
// with the tracked accessors an interpreter loop calls into.
// It does not execute instructions; whoever drives it decides when each
// interception point fires.
type R4300 struct {
	regs     Regs
	mem      *Mem
	cart     []byte
	dispatch Dispatcher

	// Translate resolves TLB-mapped virtual addresses.
	// When nil, any access outside KSEG0/KSEG1 fails.
	Translate func(vaddr uint32, write bool) (uint32, bool)
}

// NewR4300 creates a core with size bytes of RDRAM.
func NewR4300(size int) *R4300 {
	if size <= 0 {
		size = RDRAM_SIZE_EXPANDED
	}
	return &R4300{mem: NewMem(size)}
}

func (c *R4300) Regs() *Regs { return &c.regs }
func (c *R4300) Mem() *Mem   { return c.mem }

// RDRAM exposes the backing store words, for dumps.
func (c *R4300) RDRAM() []uint32 { return c.mem.Words() }

func (c *R4300) Cart() []byte { return c.cart }

func (c *R4300) LoadCart(rom []byte) {
	c.cart = append([]byte(nil), rom...)
}

// SetDispatcher attaches the hook dispatcher. nil detaches it.
func (c *R4300) SetDispatcher(d Dispatcher) {
	c.dispatch = d
}

func (c *R4300) physical(addr uint32, write bool) (uint32, error) {
	if addr&KSEG_MASK == KSEG0_BASE {
		return addr & PHYS_MASK, nil
	}
	if c.Translate != nil {
		if phys, ok := c.Translate(addr, write); ok {
			return phys & PHYS_MASK, nil
		}
	}
	return 0, &MemError{Addr: addr, Write: write, Unmapped: true}
}

// ReadWord is the untracked aligned read. It never fires hooks.
func (c *R4300) ReadWord(addr uint32) (uint32, error) {
	phys, err := c.physical(addr, false)
	if err != nil {
		return 0, err
	}
	return c.mem.Read32(phys &^ 3)
}

// WriteWord is the untracked aligned masked write. It never fires hooks.
func (c *R4300) WriteWord(addr, value, mask uint32) error {
	phys, err := c.physical(addr, true)
	if err != nil {
		return err
	}
	return c.mem.Write32(phys&^3, value, mask)
}

// ReadAlignedWord fires RAM read hooks for addr, then reads.
func (c *R4300) ReadAlignedWord(addr uint32) (uint32, error) {
	if c.dispatch != nil {
		if err := c.dispatch.OnRAMRead(c, addr); err != nil {
			return 0, err
		}
	}
	return c.ReadWord(addr)
}

// ReadAlignedDword fires RAM read hooks once for addr, then reads two words.
func (c *R4300) ReadAlignedDword(addr uint32) (uint64, error) {
	if c.dispatch != nil {
		if err := c.dispatch.OnRAMRead(c, addr); err != nil {
			return 0, err
		}
	}
	hi, err := c.ReadWord(addr)
	if err != nil {
		return 0, err
	}
	lo, err := c.ReadWord(addr + 4)
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

// WriteAlignedWord fires RAM write hooks for addr, then writes.
func (c *R4300) WriteAlignedWord(addr, value, mask uint32) error {
	if c.dispatch != nil {
		if err := c.dispatch.OnRAMWrite(c, addr, uint64(value), uint64(mask)); err != nil {
			return err
		}
	}
	return c.WriteWord(addr, value, mask)
}

// WriteAlignedDword fires RAM write hooks once with the full 64-bit value, then writes two words.
func (c *R4300) WriteAlignedDword(addr uint32, value, mask uint64) error {
	if c.dispatch != nil {
		if err := c.dispatch.OnRAMWrite(c, addr, value, mask); err != nil {
			return err
		}
	}
	if err := c.WriteWord(addr, uint32(value>>32), uint32(mask>>32)); err != nil {
		return err
	}
	return c.WriteWord(addr+4, uint32(value), uint32(mask))
}

// Step moves the program counter to pc and fires PC hooks for it.
// Hooks may redirect execution by changing PC.
func (c *R4300) Step(pc uint32) error {
	c.regs.PC = pc
	if c.dispatch != nil {
		return c.dispatch.OnPC(c)
	}
	return nil
}

// SampleInput fires input hooks for a controller sample.
func (c *R4300) SampleInput(buttons uint32) error {
	if c.dispatch != nil {
		return c.dispatch.OnInput(c, buttons)
	}
	return nil
}

func (c *R4300) cartOffset(cartAddr, length uint32) (int, error) {
	phys := cartAddr & PHYS_MASK
	if phys < CART_BASE {
		return 0, errors.Errorf("cart DMA address %#08x below cartridge space", cartAddr)
	}
	off := int(phys - CART_BASE)
	if off+int(length) > len(c.cart) {
		return 0, errors.Errorf("cart DMA [%#08x, +%#x) outside %#x byte ROM", cartAddr, length, len(c.cart))
	}
	return off, nil
}

// PIDMARead fires cart read hooks, then copies length bytes of cartridge
// space at cartAddr into RDRAM at dramAddr.
func (c *R4300) PIDMARead(cartAddr, length, dramAddr uint32) error {
	if c.dispatch != nil {
		if err := c.dispatch.OnCartRead(c, cartAddr, length, dramAddr); err != nil {
			return err
		}
	}
	off, err := c.cartOffset(cartAddr, length)
	if err != nil {
		return err
	}
	return c.mem.WriteBytes(dramAddr&PHYS_MASK, c.cart[off:off+int(length)])
}

// PIDMAWrite fires cart write hooks, then copies length bytes of RDRAM at
// dramAddr into cartridge space at cartAddr.
func (c *R4300) PIDMAWrite(cartAddr, length, dramAddr uint32) error {
	if c.dispatch != nil {
		if err := c.dispatch.OnCartWrite(c, cartAddr, length, dramAddr); err != nil {
			return err
		}
	}
	off, err := c.cartOffset(cartAddr, length)
	if err != nil {
		return err
	}
	return c.mem.ReadBytes(dramAddr&PHYS_MASK, c.cart[off:off+int(length)])
}
