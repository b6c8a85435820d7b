package cpu

import (
	"fmt"
)

type MemError struct {
	Addr  uint32
	Write bool
	// set when the address failed translation rather than falling outside RDRAM
	Unmapped bool
}

func (m *MemError) Error() string {
	reason := "read"
	if m.Write {
		reason = "write"
	}
	if m.Unmapped {
		return fmt.Sprintf("unmapped %s at %#08x", reason, m.Addr)
	}
	return fmt.Sprintf("%s outside RDRAM at %#08x", reason, m.Addr)
}

// Mem is a word-addressed RDRAM backing store.
// Words hold big-endian data: the byte at a word's lowest address is in bits 31:24.
type Mem struct {
	words []uint32
}

func NewMem(size int) *Mem {
	return &Mem{words: make([]uint32, (size+3)/4)}
}

// Size returns the store size in bytes.
func (m *Mem) Size() uint32 {
	return uint32(len(m.words) * 4)
}

// Words exposes the backing store. Writes through it bypass everything.
func (m *Mem) Words() []uint32 {
	return m.words
}

func (m *Mem) index(phys uint32, write bool) (int, error) {
	i := int(phys >> 2)
	if i >= len(m.words) {
		return 0, &MemError{Addr: phys, Write: write}
	}
	return i, nil
}

// Read32 reads the word containing physical address phys.
func (m *Mem) Read32(phys uint32) (uint32, error) {
	i, err := m.index(phys, false)
	if err != nil {
		return 0, err
	}
	return m.words[i], nil
}

// Write32 stores the bits of value selected by mask into the word containing phys.
func (m *Mem) Write32(phys, value, mask uint32) error {
	i, err := m.index(phys, true)
	if err != nil {
		return err
	}
	m.words[i] = m.words[i]&^mask | value&mask
	return nil
}

// ReadBytes copies len(p) bytes starting at phys into p.
func (m *Mem) ReadBytes(phys uint32, p []byte) error {
	for i := range p {
		addr := phys + uint32(i)
		word, err := m.Read32(addr)
		if err != nil {
			return err
		}
		p[i] = byte(word >> (24 - (addr&3)*8))
	}
	return nil
}

// WriteBytes copies p into memory starting at phys.
func (m *Mem) WriteBytes(phys uint32, p []byte) error {
	for i, b := range p {
		addr := phys + uint32(i)
		shift := 24 - (addr&3)*8
		if err := m.Write32(addr, uint32(b)<<shift, 0xff<<shift); err != nil {
			return err
		}
	}
	return nil
}
