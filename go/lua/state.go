package lua

import (
	"path/filepath"

	"github.com/lunixbochs/luaish"

	"github.com/lunixbochs/hookcorn/go/dump"
	"github.com/lunixbochs/hookcorn/go/hooks"
	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

// luaHook calls a script function with a table view of the hook state.
type luaHook struct {
	src  *Source
	fn   *lua.LFunction
	name string
}

func (h *luaHook) Name() string { return h.name }

func (h *luaHook) Invoke(st *hooks.State, ev hooks.Event) error {
	L := h.src.LState
	top := L.GetTop()
	defer L.SetTop(top)

	tbl := h.src.stateTable(st)
	args := ev.Args()
	L.Push(h.fn)
	L.Push(tbl)
	for _, v := range args {
		L.Push(lua.LInt(v))
	}
	err := L.PCall(1+len(args), 0, nil)
	// changes made before an error still count
	fromTable(tbl, st)
	return err
}

// the state functions may be called as s.read_u32(addr) or s:read_u32(addr)
func argBase(L *lua.LState) int {
	if _, ok := L.Get(1).(*lua.LTable); ok {
		return 2
	}
	return 1
}

func optInt(L *lua.LState, n int, def int64) int64 {
	if L.Get(n) == lua.LNil {
		return def
	}
	return checkInt(L, n)
}

func raiseErr(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError(err.Error())
	}
}

// stateTable builds the table a callback receives from the shared state.
func (s *Source) stateTable(st *hooks.State) *lua.LTable {
	L := s.LState
	t := L.NewTable()
	t.RawSetString("pc", lua.LInt(st.PC))
	t.RawSetString("hi", lua.LInt(st.HI))
	t.RawSetString("lo", lua.LInt(st.LO))
	regs := L.NewTable()
	for i, v := range st.GPR {
		setReg(regs, i, lua.LInt(v))
	}
	t.RawSetString("regs", regs)

	funcs := map[string]lua.LGFunction{
		"read_u32": func(L *lua.LState) int {
			v, err := st.Read32(uint32(checkInt(L, argBase(L))))
			raiseErr(L, err)
			L.Push(lua.LInt(v))
			return 1
		},
		"read_u16": func(L *lua.LState) int {
			v, err := st.Read16(uint32(checkInt(L, argBase(L))))
			raiseErr(L, err)
			L.Push(lua.LInt(v))
			return 1
		},
		"read_u8": func(L *lua.LState) int {
			v, err := st.Read8(uint32(checkInt(L, argBase(L))))
			raiseErr(L, err)
			L.Push(lua.LInt(v))
			return 1
		},
		"write_u32": func(L *lua.LState) int {
			n := argBase(L)
			addr, val := uint32(checkInt(L, n)), uint32(checkInt(L, n+1))
			raiseErr(L, st.Write32(addr, val, uint32(optInt(L, n+2, 0xffffffff))))
			return 0
		},
		"write_u16": func(L *lua.LState) int {
			n := argBase(L)
			addr, val := uint32(checkInt(L, n)), uint16(checkInt(L, n+1))
			raiseErr(L, st.Write16(addr, val, uint16(optInt(L, n+2, 0xffff))))
			return 0
		},
		"write_u8": func(L *lua.LState) int {
			n := argBase(L)
			addr, val := uint32(checkInt(L, n)), uint8(checkInt(L, n+1))
			raiseErr(L, st.Write8(addr, val, uint8(optInt(L, n+2, 0xff))))
			return 0
		},
		"dump_rdram": func(L *lua.LState) int {
			path := s.dumpPath(L.CheckString(argBase(L)))
			d, ok := st.Core().(cpu.Dumpable)
			if !ok {
				L.RaiseError("core has no rdram to dump")
			}
			raiseErr(L, dump.DumpRDRAM(path, d.RDRAM()))
			return 0
		},
		"dump_regs": func(L *lua.LState) int {
			path := s.dumpPath(L.CheckString(argBase(L)))
			// registers as the script has them so far
			raiseErr(L, dump.DumpRegs(path, tableRegs(t, st.Regs)))
			return 0
		},
	}
	for name, fn := range funcs {
		t.RawSetString(name, L.NewFunction(fn))
	}
	return t
}

// relative dump names land in the configured dump directory
func (s *Source) dumpPath(name string) string {
	if filepath.IsAbs(name) || s.cfg == nil || s.cfg.DumpPath == "" {
		return name
	}
	return filepath.Join(s.cfg.DumpPath, name)
}

// regs is indexed from 0 like the hardware; index 0 lives in the hash part
// since the array part starts at 1.
func setReg(regs *lua.LTable, i int, v lua.LValue) {
	if i == 0 {
		regs.RawSetH(lua.LInt(0), v)
	} else {
		regs.RawSetInt(i, v)
	}
}

func getReg(regs *lua.LTable, i int) lua.LValue {
	if i == 0 {
		return regs.RawGetH(lua.LInt(0))
	}
	return regs.RawGetInt(i)
}

// tableRegs applies the register fields of t on top of regs.
func tableRegs(t *lua.LTable, regs cpu.Regs) *cpu.Regs {
	if v, ok := toInt(t.RawGetString("pc")); ok {
		regs.PC = uint32(v)
	}
	if v, ok := toInt(t.RawGetString("hi")); ok {
		regs.HI = v
	}
	if v, ok := toInt(t.RawGetString("lo")); ok {
		regs.LO = v
	}
	if gpr, ok := t.RawGetString("regs").(*lua.LTable); ok {
		for i := range regs.GPR {
			if v, ok := toInt(getReg(gpr, i)); ok {
				regs.GPR[i] = v
			}
		}
	}
	return &regs
}

// fromTable writes the register fields of t back into st.
// Fields a script set to something other than a number are ignored.
func fromTable(t *lua.LTable, st *hooks.State) {
	st.Regs = *tableRegs(t, st.Regs)
}
