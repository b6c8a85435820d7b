package lua

import (
	"fmt"
	"strings"

	"github.com/lunixbochs/luaish"
)

func (s *Source) prettydump(lv []lua.LValue, implicit bool, outer bool, seen map[lua.LValue]bool) []string {
	pretty := make([]string, len(lv))
	for i, v := range lv {
		switch t := v.(type) {
		case *lua.LTable:
			// seen[v] is used to skip recursive table references
			if seen[v] {
				pretty[i] = "{<recursion>}"
				continue
			}
			seen[v] = true

			table := make([]string, 0, t.Len())
			idx := 1
			t.ForEach(func(k, v lua.LValue) {
				tmp := s.prettydump([]lua.LValue{k, v}, implicit, false, seen)
				if n, ok := k.(lua.LInt); ok && int(n) == idx {
					idx += 1
					table = append(table, tmp[1])
				} else {
					table = append(table, strings.Join(tmp, " = "))
				}
			})

			seen[v] = false
			sep := ", "
			if outer {
				sep = ",\n "
			}
			pretty[i] = "{" + strings.Join(table, sep) + "}"
		case lua.LFloat:
			pretty[i] = fmt.Sprintf("%f", float64(t))
		case lua.LInt:
			// addresses read best in hex
			n := uint64(t)
			if n < 10 {
				pretty[i] = fmt.Sprintf("%d", n)
			} else if n > 0x10000 {
				pretty[i] = fmt.Sprintf("%#x", n)
			} else {
				pretty[i] = fmt.Sprintf("%#x(%d)", n, n)
			}
		case lua.LString:
			if implicit {
				pretty[i] = fmt.Sprintf("%#v", string(t))
			} else {
				pretty[i] = string(t)
			}
		default:
			pretty[i] = fmt.Sprintf("%s", t)
		}
	}
	return pretty
}

func (s *Source) PrettyDump(lv []lua.LValue, implicit bool) []string {
	return s.prettydump(lv, implicit, true, make(map[lua.LValue]bool))
}

// PrettyPrint writes values to the configured output, space separated.
func (s *Source) PrettyPrint(lv []lua.LValue, implicit bool) {
	s.cfg.Printf("%s\n", strings.Join(s.PrettyDump(lv, implicit), " "))
}
