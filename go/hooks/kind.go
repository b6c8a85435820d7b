package hooks

import (
	"fmt"
)

type Kind int

const (
	PC Kind = iota
	Input
	RAMRead
	RAMWrite
	CartRead
	CartWrite

	numKinds
)

var kindNames = [numKinds]string{"pc", "button", "ram read", "ram write", "cart read", "cart write"}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Ranged reports whether hooks of this kind are keyed by an address range
// rather than an exact value.
func (k Kind) Ranged() bool {
	return k >= RAMRead && k < numKinds
}

// Caps selects which hook categories an Engine dispatches.
type Caps int

const (
	CapPC Caps = 1 << iota
	CapInput
	CapRAM
	CapCart

	CapAll = CapPC | CapInput | CapRAM | CapCart
)

func (c Caps) Has(k Kind) bool {
	switch k {
	case PC:
		return c&CapPC != 0
	case Input:
		return c&CapInput != 0
	case RAMRead, RAMWrite:
		return c&CapRAM != 0
	case CartRead, CartWrite:
		return c&CapCart != 0
	}
	return false
}

// Event describes one interception. The meaning of Value and Mask depends on Kind:
//
//	RAMRead:             Addr=address, Value=0, Mask=0
//	RAMWrite:            Addr=address, Value=value, Mask=byte mask
//	CartRead, CartWrite: Addr=base, Value=length, Mask=destination
//	Input:               Value=sampled button mask
type Event struct {
	Kind  Kind
	Addr  uint32
	Value uint64
	Mask  uint64
}

func (e Event) Base() uint32 { return e.Addr }
func (e Event) Len() uint32  { return uint32(e.Value) }
func (e Event) Dst() uint32  { return uint32(e.Mask) }

// Args returns the three extra values passed to script callbacks, or nil
// for events that pass none.
func (e Event) Args() []uint64 {
	switch e.Kind {
	case RAMRead, RAMWrite, CartRead, CartWrite:
		return []uint64{uint64(e.Addr), e.Value, e.Mask}
	}
	return nil
}

func (e Event) String() string {
	switch e.Kind {
	case PC:
		return "pc"
	case Input:
		return fmt.Sprintf("buttons %#x", e.Value)
	case RAMRead:
		return fmt.Sprintf("ram read %#08x", e.Addr)
	case RAMWrite:
		return fmt.Sprintf("ram write %#08x = %#x & %#x", e.Addr, e.Value, e.Mask)
	}
	return fmt.Sprintf("%s [%#08x, +%#x) -> %#08x", e.Kind, e.Base(), e.Len(), e.Dst())
}
