package models

import (
	"fmt"
	"strings"

	"github.com/mgutz/ansi"

	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

var chSame = ansi.ColorCode("default:default")
var chNew = ansi.ColorCode("default+bu:default")

// Change is one register before and after a dispatch.
type Change struct {
	Reg
	Old, New uint64
}

func (c *Change) Changed() bool { return c.Old != c.New }

// highlight colors the hex digits of New that differ from Old.
func (c *Change) highlight(digits int) string {
	hexFmt := fmt.Sprintf("%%0%dx", digits)
	s1, s2 := fmt.Sprintf(hexFmt, c.New), fmt.Sprintf(hexFmt, c.Old)
	var out strings.Builder
	cur := ""
	for i := range s1 {
		col := chSame
		if s1[i] != s2[i] {
			col = chNew
		}
		if col != cur {
			out.WriteString(col)
			cur = col
		}
		out.WriteByte(s1[i])
	}
	out.WriteString(ansi.Reset)
	return out.String()
}

func (c *Change) String(digits int, color bool) string {
	name := fmt.Sprintf("%4s", c.Name)
	if !c.Changed() {
		return fmt.Sprintf("  %s 0x%0*x", name, digits, c.New)
	}
	if color {
		return fmt.Sprintf("  %s%s%s 0x%s", chNew, name, ansi.Reset, c.highlight(digits))
	}
	return fmt.Sprintf("+ %s 0x%0*x", name, digits, c.New)
}

type Changes struct {
	// hex digits per value
	Digits  int
	Changes []*Change
}

// String lays changes out four to a row.
func (cs *Changes) String(color bool) string {
	var out strings.Builder
	for i, c := range cs.Changes {
		out.WriteString(c.String(cs.Digits, color))
		if i%4 == 3 || i == len(cs.Changes)-1 {
			out.WriteByte('\n')
		} else {
			out.WriteByte(' ')
		}
	}
	return out.String()
}

func (cs *Changes) Count() int {
	n := 0
	for _, c := range cs.Changes {
		if c.Changed() {
			n++
		}
	}
	return n
}

// RegChanges compares two register files.
// With onlyChanged set, unchanged registers are left out.
func RegChanges(before, after *cpu.Regs, onlyChanged bool) *Changes {
	old := RegDump(before)
	regs := RegDump(after)
	cs := make([]*Change, 0, len(regs))
	for i, reg := range regs {
		change := &Change{Reg: reg.Reg, Old: old[i].Val, New: reg.Val}
		if !onlyChanged || change.Changed() {
			cs = append(cs, change)
		}
	}
	return &Changes{Digits: 16, Changes: cs}
}
