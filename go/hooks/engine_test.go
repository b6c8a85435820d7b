package hooks

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/lunixbochs/hookcorn/go/models"
	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

func makeEngine(caps Caps) (*Engine, *cpu.R4300, *bufCloser) {
	out := &bufCloser{}
	cfg := &models.Config{Output: out}
	e := NewEngine(NewRegistry(cfg), caps, cfg)
	c := cpu.NewR4300(0x4000)
	c.SetDispatcher(e)
	return e, c, out
}

func TestSequentialVisibility(t *testing.T) {
	e, c, _ := makeEngine(CapAll)
	r := e.Registry()
	var seen int64
	r.HookAdd(PC, HookFunc(func(s *State, ev Event) error {
		s.GPR[5] = 42
		return nil
	}), 0x80001000, 0)
	r.HookAdd(PC, HookFunc(func(s *State, ev Event) error {
		seen = s.GPR[5]
		return nil
	}), 0x80001000, 0)
	if err := c.Step(0x80001000); err != nil {
		t.Fatal(err)
	}
	if seen != 42 {
		t.Fatalf("second hook saw r5=%d", seen)
	}
	if c.Regs().GPR[5] != 42 {
		t.Fatalf("r5 not committed: %d", c.Regs().GPR[5])
	}
}

func TestCommitOnce(t *testing.T) {
	e, c, _ := makeEngine(CapAll)
	r := e.Registry()
	for i := 1; i <= 3; i++ {
		n := i
		r.HookAdd(RAMWrite, HookFunc(func(s *State, ev Event) error {
			for j := 1; j <= 3; j++ {
				if c.Regs().GPR[j] != 0 {
					t.Errorf("hook %d saw live r%d=%d before commit", n, j, c.Regs().GPR[j])
				}
			}
			s.GPR[n] = int64(n * 10)
			return nil
		}), 0x80000000, 0x80002000)
	}
	if err := c.WriteAlignedWord(0x80001000, 1, 0xffffffff); err != nil {
		t.Fatal(err)
	}
	regs := c.Regs()
	if regs.GPR[1] != 10 || regs.GPR[2] != 20 || regs.GPR[3] != 30 {
		t.Fatalf("registers after commit: %v", regs.GPR[:4])
	}
}

func TestNoMatchNoCommit(t *testing.T) {
	e, c, _ := makeEngine(CapAll)
	e.Registry().HookAdd(PC, HookFunc(func(s *State, ev Event) error {
		t.Fatal("hook fired for the wrong PC")
		return nil
	}), 0x80001000, 0)
	c.Regs().GPR[7] = 3
	if err := c.Step(0x80001004); err != nil {
		t.Fatal(err)
	}
	if c.Regs().GPR[7] != 3 || c.Regs().PC != 0x80001004 {
		t.Fatal("registers changed without a matching hook")
	}
	if err := e.Dispatch(nil, Event{Kind: PC}); err != nil {
		t.Fatal(err)
	}
	if err := e.OnPC(nil); err != nil {
		t.Fatal(err)
	}
}

func TestCommitOnError(t *testing.T) {
	e, c, _ := makeEngine(CapAll)
	r := e.Registry()
	ran := false
	r.HookAdd(PC, HookFunc(func(s *State, ev Event) error {
		s.GPR[5] = 5
		return nil
	}), 0x80001000, 0)
	r.HookAdd(PC, WithName("broken", HookFunc(func(s *State, ev Event) error {
		return errors.New("boom")
	})), 0x80001000, 0)
	r.HookAdd(PC, HookFunc(func(s *State, ev Event) error {
		ran = true
		return nil
	}), 0x80001000, 0)

	err := c.Step(0x80001000)
	if err == nil {
		t.Fatal("hook error was dropped")
	}
	if !strings.Contains(err.Error(), "broken") || errors.Cause(err).Error() != "boom" {
		t.Fatalf("unexpected error: %v", err)
	}
	if ran {
		t.Fatal("hook after the failing one ran")
	}
	if c.Regs().GPR[5] != 5 {
		t.Fatal("changes before the error were not committed")
	}
}

func TestCommitOnPanic(t *testing.T) {
	e, c, _ := makeEngine(CapAll)
	e.Registry().HookAdd(Input, HookFunc(func(s *State, ev Event) error {
		s.HI = 99
		panic("hook panicked")
	}), cpu.A_BUTTON, 0)
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic was swallowed")
			}
		}()
		c.SampleInput(cpu.A_BUTTON | cpu.START_BUTTON)
	}()
	if c.Regs().HI != 99 {
		t.Fatal("registers not committed on panic")
	}
}

func TestMatchSnapshot(t *testing.T) {
	e, c, _ := makeEngine(CapAll)
	r := e.Registry()
	var calls []string
	var second, added Cookie
	added = ^Cookie(0)
	r.HookAdd(PC, HookFunc(func(s *State, ev Event) error {
		calls = append(calls, "first")
		r.HookDel(PC, second)
		if added == ^Cookie(0) {
			added = r.HookAdd(PC, HookFunc(func(s *State, ev Event) error {
				calls = append(calls, "added")
				return nil
			}), 0x80001000, 0)
		}
		return nil
	}), 0x80001000, 0)
	second = r.HookAdd(PC, HookFunc(func(s *State, ev Event) error {
		calls = append(calls, "second")
		return nil
	}), 0x80001000, 0)

	if err := c.Step(0x80001000); err != nil {
		t.Fatal(err)
	}
	if err := c.Step(0x80001000); err != nil {
		t.Fatal(err)
	}
	compare := []string{"first", "second", "first", "added"}
	if strings.Join(calls, ",") != strings.Join(compare, ",") {
		t.Fatalf("calls: %v, want %v", calls, compare)
	}
}

func TestCaps(t *testing.T) {
	e, c, _ := makeEngine(CapPC | CapRAM)
	r := e.Registry()
	fired := map[Kind]int{}
	count := HookFunc(func(s *State, ev Event) error {
		fired[ev.Kind]++
		return nil
	})
	r.HookAdd(Input, count, cpu.A_BUTTON, 0)
	r.HookAdd(CartRead, count, cpu.CART_BASE, cpu.CART_BASE+0x1000)
	r.HookAdd(RAMRead, count, 0x80000000, 0x80001000)
	c.LoadCart(make([]byte, 0x100))

	c.SampleInput(cpu.A_BUTTON)
	if err := c.PIDMARead(cpu.CART_BASE, 0x10, 0x80000000); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ReadAlignedWord(0x80000010); err != nil {
		t.Fatal(err)
	}
	if fired[Input] != 0 || fired[CartRead] != 0 || fired[RAMRead] != 1 {
		t.Fatalf("fired: %v", fired)
	}
}

func TestEventArgs(t *testing.T) {
	e, c, _ := makeEngine(CapAll)
	r := e.Registry()
	var got []Event
	record := HookFunc(func(s *State, ev Event) error {
		got = append(got, ev)
		return nil
	})
	r.HookAdd(RAMWrite, record, 0x80000000, 0x80004000)
	r.HookAdd(CartWrite, record, cpu.CART_BASE, cpu.CART_BASE+0x100)
	c.LoadCart(make([]byte, 0x100))

	if err := c.WriteAlignedDword(0x80000020, 0x0102030405060708, 0xffffffff00000000); err != nil {
		t.Fatal(err)
	}
	if err := c.PIDMAWrite(cpu.CART_BASE+0x40, 0x20, 0x80000100); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("events: %v", got)
	}
	if args := got[0].Args(); args[0] != 0x80000020 || args[1] != 0x0102030405060708 || args[2] != 0xffffffff00000000 {
		t.Errorf("ram write args: %#x", args)
	}
	if ev := got[1]; ev.Base() != cpu.CART_BASE+0x40 || ev.Len() != 0x20 || ev.Dst() != 0x80000100 {
		t.Errorf("cart write event: %v", ev)
	}
	if (Event{Kind: PC}).Args() != nil {
		t.Error("pc events carry arguments")
	}
}

func TestPCRedirect(t *testing.T) {
	e, c, _ := makeEngine(CapAll)
	e.Registry().HookAdd(PC, HookFunc(func(s *State, ev Event) error {
		if ev.Addr != 0x80001000 {
			t.Errorf("event address %#x", ev.Addr)
		}
		s.PC = 0x80002000
		return nil
	}), 0x80001000, 0)
	if err := c.Step(0x80001000); err != nil {
		t.Fatal(err)
	}
	if c.Regs().PC != 0x80002000 {
		t.Fatalf("PC = %#x", c.Regs().PC)
	}
}

func TestHookMemoryUntracked(t *testing.T) {
	e, c, _ := makeEngine(CapAll)
	r := e.Registry()
	reads := 0
	r.HookAdd(RAMRead, HookFunc(func(s *State, ev Event) error {
		reads++
		_, err := s.Read32(ev.Addr + 1)
		return err
	}), 0x80000000, 0x80004000)
	r.HookAdd(RAMWrite, HookFunc(func(s *State, ev Event) error {
		return s.Write32(ev.Addr+4, 0x12345678, 0xffffffff)
	}), 0x80000000, 0x80004000)
	if _, err := c.ReadAlignedWord(0x80000100); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteAlignedWord(0x80000200, 1, 0xffffffff); err != nil {
		t.Fatal(err)
	}
	if reads != 1 {
		t.Fatalf("hook memory access recursed: %d reads", reads)
	}
	if w, _ := c.ReadWord(0x80000204); w != 0x12345678 {
		t.Fatalf("hook write lost: %#08x", w)
	}
}

func TestVerboseChanges(t *testing.T) {
	e, c, out := makeEngine(CapAll)
	e.cfg.Verbose = true
	e.Registry().HookAdd(PC, HookFunc(func(s *State, ev Event) error {
		s.GPR[2] = 0x1234
		return nil
	}), 0x80001000, 0)
	out.Reset()
	if err := c.Step(0x80001000); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "v0") || !strings.Contains(out.String(), "1234") {
		t.Fatalf("verbose output: %q", out.String())
	}
}
