package models

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lunixbochs/fvbommel-util/sortorder"

	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

// register enums past the 32 GPRs
const (
	REG_PC = 32 + iota
	REG_HI
	REG_LO
)

// MIPS o32 register names, by GPR index
var GPRNames = [32]string{
	"r0", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

type Reg struct {
	Enum int
	Name string
}

type RegVal struct {
	Reg
	Val uint64
}

type regList []Reg

func (r regList) Len() int           { return len(r) }
func (r regList) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
func (r regList) Less(i, j int) bool { return sortorder.NaturalLess(r[i].Name, r[j].Name) }

var allRegs = func() regList {
	rl := make(regList, 0, len(GPRNames)+3)
	for i, name := range GPRNames {
		rl = append(rl, Reg{i, name})
	}
	return append(rl, Reg{REG_PC, "pc"}, Reg{REG_HI, "hi"}, Reg{REG_LO, "lo"})
}()

// LookupReg resolves a register name, or a raw "rN"/"$N" form, to its enum.
func LookupReg(name string) (int, bool) {
	for _, r := range allRegs {
		if r.Name == name {
			return r.Enum, true
		}
	}
	for _, prefix := range []string{"r", "$"} {
		if strings.HasPrefix(name, prefix) {
			if n, err := strconv.Atoi(name[len(prefix):]); err == nil && n >= 0 && n < 32 {
				return n, true
			}
		}
	}
	return 0, false
}

func RegName(enum int) string {
	for _, r := range allRegs {
		if r.Enum == enum {
			return r.Name
		}
	}
	return "?"
}

func readReg(r *cpu.Regs, enum int) uint64 {
	switch enum {
	case REG_PC:
		return uint64(r.PC)
	case REG_HI:
		return uint64(r.HI)
	case REG_LO:
		return uint64(r.LO)
	}
	return uint64(r.GPR[enum])
}

// WriteReg stores val into the register named by enum.
func WriteReg(r *cpu.Regs, enum int, val uint64) {
	switch enum {
	case REG_PC:
		r.PC = uint32(val)
	case REG_HI:
		r.HI = int64(val)
	case REG_LO:
		r.LO = int64(val)
	default:
		r.GPR[enum] = int64(val)
	}
}

// RegDump lists every register in index order: GPRs, then pc, hi, lo.
func RegDump(r *cpu.Regs) []RegVal {
	ret := make([]RegVal, len(allRegs))
	for i, reg := range allRegs {
		ret[i] = RegVal{reg, readReg(r, reg.Enum)}
	}
	return ret
}

// SortedRegDump is RegDump in natural name order.
func SortedRegDump(r *cpu.Regs) []RegVal {
	rl := append(regList(nil), allRegs...)
	sort.Sort(rl)
	ret := make([]RegVal, len(rl))
	for i, reg := range rl {
		ret[i] = RegVal{reg, readReg(r, reg.Enum)}
	}
	return ret
}
