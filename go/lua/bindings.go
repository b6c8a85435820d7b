package lua

import (
	"math"
	"strconv"
	"strings"

	"github.com/lunixbochs/luaish"

	"github.com/lunixbochs/hookcorn/go/hooks"
	"github.com/lunixbochs/hookcorn/go/models"
	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

// toInt accepts both integer and float numbers.
func toInt(v lua.LValue) (int64, bool) {
	switch n := v.(type) {
	case lua.LInt:
		return int64(n), true
	case lua.LFloat:
		return int64(n), true
	}
	return 0, false
}

func checkInt(L *lua.LState, n int) int64 {
	v := L.CheckAny(n)
	i, ok := toInt(v)
	if !ok {
		L.RaiseError("bad argument #%d: number expected, got %s", n, v.Type())
	}
	return i
}

func checkFunc(L *lua.LState, n int) *lua.LFunction {
	fn, ok := L.Get(n).(*lua.LFunction)
	if !ok {
		L.RaiseError("bad argument #%d: function expected", n)
	}
	return fn
}

func (s *Source) printFunc(L *lua.LState) int {
	s.PrettyPrint(s.getArgs(), false)
	return 0
}

func (s *Source) intFunc(L *lua.LState) int {
	switch v := L.CheckAny(1).(type) {
	case lua.LString:
		n, err := strconv.ParseInt(string(v), 0, 64)
		if err == nil {
			L.Push(lua.LInt(n))
			return 1
		}
	case lua.LFloat:
		L.Push(lua.LInt(v))
		return 1
	case lua.LInt:
		L.Push(v)
		return 1
	}
	return 0
}

// register returns the binding that adds a hook of kind.
func (s *Source) register(kind hooks.Kind) lua.LGFunction {
	return func(L *lua.LState) int {
		var start, end uint32
		arg := 1
		start = uint32(checkInt(L, arg))
		arg++
		if kind.Ranged() {
			end = uint32(checkInt(L, arg))
			arg++
		}
		fn := checkFunc(L, arg)
		name, ok := L.Get(arg + 1).(lua.LString)
		if !ok {
			name = lua.LString(s.nextName())
		}
		h := &luaHook{src: s, fn: fn, name: string(name)}
		L.Push(lua.LInt(s.reg.HookAdd(kind, h, start, end)))
		return 1
	}
}

func (s *Source) remove(kind hooks.Kind) lua.LGFunction {
	return func(L *lua.LState) int {
		s.reg.HookDel(kind, hooks.Cookie(checkInt(L, 1)))
		return 0
	}
}

var kindNames = map[hooks.Kind]string{
	hooks.PC:        "pc",
	hooks.Input:     "button",
	hooks.RAMRead:   "ram_read",
	hooks.RAMWrite:  "ram_write",
	hooks.CartRead:  "cart_read",
	hooks.CartWrite: "cart_write",
}

// Exports lists the core table functions for the enabled hook kinds.
func (s *Source) Exports() map[string]lua.LGFunction {
	ret := make(map[string]lua.LGFunction)
	for kind, name := range kindNames {
		if s.caps.Has(kind) {
			ret["register_"+name+"_hook"] = s.register(kind)
			ret["remove_"+name+"_hook"] = s.remove(kind)
		}
	}
	return ret
}

// buttons(...) builds an input mask from button names.
func buttonsFunc(L *lua.LState) int {
	var mask uint32
	for i := 1; i <= L.GetTop(); i++ {
		name := strings.ToUpper(L.CheckString(i))
		found := false
		for bit, b := range cpu.ButtonNames {
			if b == name {
				mask |= 1 << uint(bit)
				found = true
			}
		}
		if !found {
			L.RaiseError("unknown button: %s", name)
		}
	}
	L.Push(lua.LInt(mask))
	return 1
}

func u32Func(L *lua.LState) int {
	L.Push(lua.LInt(uint32(checkInt(L, 1))))
	return 1
}

func s32Func(L *lua.LState) int {
	L.Push(lua.LInt(int32(checkInt(L, 1))))
	return 1
}

func s16Func(L *lua.LState) int {
	L.Push(lua.LInt(int16(checkInt(L, 1))))
	return 1
}

func bandFunc(L *lua.LState) int {
	L.Push(lua.LInt(checkInt(L, 1) & checkInt(L, 2)))
	return 1
}

func asFloatFunc(L *lua.LState) int {
	L.Push(lua.LFloat(math.Float32frombits(uint32(checkInt(L, 1)))))
	return 1
}

func floatWordFunc(L *lua.LState) int {
	var f float64
	switch v := L.CheckAny(1).(type) {
	case lua.LFloat:
		f = float64(v)
	case lua.LInt:
		f = float64(v)
	default:
		L.RaiseError("bad argument #1: number expected")
	}
	L.Push(lua.LInt(math.Float32bits(float32(f))))
	return 1
}

// masked_write(val, mask) renders the nibbles of val a write mask selects,
// with '_' for the ones it leaves alone.
func maskedWriteFunc(L *lua.LState) int {
	val, mask := uint32(checkInt(L, 1)), uint32(checkInt(L, 2))
	out := make([]byte, 8)
	for i := range out {
		shift := uint(28 - i*4)
		if (mask>>shift)&0xf == 0 {
			out[i] = '_'
		} else {
			out[i] = "0123456789ABCDEF"[(val>>shift)&0xf]
		}
	}
	L.Push(lua.LString(out))
	return 1
}

func (s *Source) loadBindings() error {
	s.SetGlobal("print", s.NewFunction(s.printFunc))
	s.SetGlobal("int", s.NewFunction(s.intFunc))

	core := s.SetFuncs(s.NewTable(), s.Exports())
	s.SetGlobal("core", core)

	helpers := map[string]lua.LGFunction{
		"buttons":      buttonsFunc,
		"u32":          u32Func,
		"s32":          s32Func,
		"s16":          s16Func,
		"band":         bandFunc,
		"as_float":     asFloatFunc,
		"float_word":   floatWordFunc,
		"masked_write": maskedWriteFunc,
	}
	for name, fn := range helpers {
		s.SetGlobal(name, s.NewFunction(fn))
	}
	// register index constants, as in AT = 1
	for i, name := range models.GPRNames {
		if i > 0 {
			s.SetGlobal(strings.ToUpper(name), lua.LInt(i))
		}
	}
	s.SetGlobal("S8", lua.LInt(30))
	for bit, name := range cpu.ButtonNames {
		s.SetGlobal(name, lua.LInt(1<<uint(bit)))
	}

	if err := s.DoString(sugarRc); err != nil {
		return err
	}
	return s.DoString(hookRc)
}
