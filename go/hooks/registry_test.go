package hooks

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lunixbochs/hookcorn/go/models"
)

type bufCloser struct{ bytes.Buffer }

func (b *bufCloser) Close() error { return nil }

func makeRegistry() (*Registry, *bufCloser) {
	out := &bufCloser{}
	return NewRegistry(&models.Config{Output: out}), out
}

func nop(name string) Hook {
	return WithName(name, HookFunc(func(*State, Event) error { return nil }))
}

// returns the names of the hooks an event matches
func matchNames(r *Registry, ev Event) []string {
	var names []string
	for _, h := range r.Match(ev) {
		names = append(names, hookName(h))
	}
	return names
}

func TestCookieUnique(t *testing.T) {
	r, _ := makeRegistry()
	kinds := []Kind{PC, Input, RAMRead, RAMWrite, CartRead, CartWrite}
	var last Cookie
	for i := 0; i < 60; i++ {
		kind := kinds[i%len(kinds)]
		c := r.HookAdd(kind, nop("x"), uint32(i%4), uint32(i%4)+0x100)
		if i > 0 && c <= last {
			t.Fatalf("cookie %d after %d is not increasing", c, last)
		}
		last = c
	}
	// removal does not free cookies for reuse
	r.HookDel(PC, 0)
	if c := r.HookAdd(PC, nop("y"), 0, 0); c != last+1 {
		t.Fatalf("cookie reused: got %d, want %d", c, last+1)
	}
}

func TestHookDelIdempotent(t *testing.T) {
	r, out := makeRegistry()
	a := r.HookAdd(PC, nop("a"), 0x80001000, 0)
	b := r.HookAdd(RAMRead, nop("b"), 0x1000, 0x2000)
	r.HookDel(PC, a)
	out.Reset()

	r.HookDel(PC, a)
	r.HookDel(PC, 1234)
	// b is a RAM read hook, so removing it from the PC set does nothing
	r.HookDel(PC, b)
	r.HookDel(CartWrite, b)
	if out.Len() != 0 {
		t.Fatalf("no-op removal logged: %q", out.String())
	}
	if r.Len(PC) != 0 || r.Len(RAMRead) != 1 {
		t.Fatalf("registry changed: pc=%d ramread=%d", r.Len(PC), r.Len(RAMRead))
	}
	r.HookDel(RAMRead, b)
	r.HookDel(RAMRead, b)
	if r.Len(RAMRead) != 0 {
		t.Fatal("range hook was not removed")
	}
}

func TestButtonSubset(t *testing.T) {
	r, _ := makeRegistry()
	r.HookAdd(Input, nop("ab"), 0x5, 0)
	r.HookAdd(Input, nop("b"), 0x4, 0)
	tests := []struct {
		mask uint64
		want string
	}{
		{0x5, "b,ab"},
		{0xd, "b,ab"},
		{0x4, "b"},
		{0x1, ""},
		{0x0, ""},
	}
	for _, test := range tests {
		got := strings.Join(matchNames(r, Event{Kind: Input, Value: test.mask}), ",")
		if got != test.want {
			t.Errorf("mask %#x: got %q, want %q", test.mask, got, test.want)
		}
	}
}

func TestRangeHalfOpen(t *testing.T) {
	r, _ := makeRegistry()
	r.HookAdd(RAMRead, nop("read"), 0x1000, 0x2000)
	r.HookAdd(RAMWrite, nop("write"), 0x1000, 0x2000)
	for _, kind := range []Kind{RAMRead, RAMWrite} {
		for addr, want := range map[uint32]bool{
			0x0fff: false, 0x1000: true, 0x1fff: true, 0x2000: false,
		} {
			got := len(r.Match(Event{Kind: kind, Addr: addr})) == 1
			if got != want {
				t.Errorf("%s %#x: fired=%v, want %v", kind, addr, got, want)
			}
		}
	}
	// RAM hooks use the single address, not a transfer length
	if len(r.Match(Event{Kind: RAMRead, Addr: 0x0f00, Value: 0x1000})) != 0 {
		t.Error("RAM read matched by overlap")
	}
}

func TestTransferOverlap(t *testing.T) {
	r, _ := makeRegistry()
	r.HookAdd(CartRead, nop("cart"), 0x1000, 0x2000)
	tests := []struct {
		base, length uint32
		want         bool
	}{
		{0x1800, 0x1000, true},
		{0x2000, 0x100, false},
		{0x0f00, 0x100, false},
		{0x0f00, 0x101, true},
		{0x0000, 0x4000, true},
		{0x1fff, 1, true},
		{0xffffff00, 0x200, false},
	}
	for _, test := range tests {
		ev := Event{Kind: CartRead, Addr: test.base, Value: uint64(test.length)}
		if got := len(r.Match(ev)) == 1; got != test.want {
			t.Errorf("transfer [%#x, +%#x): fired=%v, want %v", test.base, test.length, got, test.want)
		}
	}
	if len(r.Match(Event{Kind: CartWrite, Addr: 0x1800, Value: 0x10})) != 0 {
		t.Error("cart read hook fired for a cart write")
	}
}

func TestKeyCleanup(t *testing.T) {
	r, _ := makeRegistry()
	a := r.HookAdd(PC, nop("a"), 0x80001000, 0)
	b := r.HookAdd(PC, nop("b"), 0x80001000, 0)
	r.HookDel(PC, a)
	if _, ok := r.pc.hooks[0x80001000]; !ok {
		t.Fatal("key removed while a hook remained")
	}
	r.HookDel(PC, b)
	if _, ok := r.pc.hooks[0x80001000]; ok || len(r.pc.keys) != 0 {
		t.Fatal("empty PC key left behind")
	}
	r.HookAdd(PC, nop("c"), 0x80001000, 0)
	if got := matchNames(r, Event{Kind: PC, Addr: 0x80001000}); len(got) != 1 || got[0] != "c" {
		t.Fatalf("fresh registration matched %v", got)
	}
}

func TestRegistrationOrder(t *testing.T) {
	r, _ := makeRegistry()
	for _, name := range []string{"1", "2", "3"} {
		r.HookAdd(PC, nop(name), 0x100, 0)
		r.HookAdd(RAMWrite, nop(name), 0, 0x10)
	}
	if got := strings.Join(matchNames(r, Event{Kind: PC, Addr: 0x100}), ""); got != "123" {
		t.Fatalf("pc order: %s", got)
	}
	if got := strings.Join(matchNames(r, Event{Kind: RAMWrite, Addr: 4}), ""); got != "123" {
		t.Fatalf("range order: %s", got)
	}
}

func TestRegistryLog(t *testing.T) {
	r, out := makeRegistry()
	c := r.HookAdd(PC, nop("on_boot"), 0x80000400, 0)
	r.HookAdd(CartWrite, nop("save"), 0x2000, 0x1000)
	r.HookDel(PC, c)
	compare := []string{
		"Registered hook on_boot at PC 0x80000400",
		"Registered hook save for writes in cart range [0x00001000 - 0x00002000)",
		"Removed hook on_boot at PC 0x80000400",
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(compare) {
		t.Fatalf("log: %q", out.String())
	}
	for i, v := range compare {
		if lines[i] != v {
			t.Errorf("log line %d: %q != %q", i, lines[i], v)
		}
	}
}

func TestRegistryReset(t *testing.T) {
	r, _ := makeRegistry()
	r.HookAdd(PC, nop("a"), 0x100, 0)
	r.HookAdd(Input, nop("b"), 0x1, 0)
	r.HookAdd(CartRead, nop("c"), 0, 0x100)
	r.Reset()
	for k := PC; k < numKinds; k++ {
		if r.Len(k) != 0 {
			t.Fatalf("%s hooks survived Reset", k)
		}
	}
	if c := r.HookAdd(PC, nop("d"), 0x100, 0); c != 0 {
		t.Fatalf("cookie after Reset: %d", c)
	}
}

func TestHooksInfo(t *testing.T) {
	r, _ := makeRegistry()
	r.HookAdd(PC, nop("late"), 0x200, 0)
	r.HookAdd(PC, nop("early"), 0x100, 0)
	info := r.Hooks(PC)
	if len(info) != 2 || info[0].Name != "late" || info[1].Min != 0x100 {
		t.Fatalf("info: %v", info)
	}
	if s := info[1].String(); s != "#1 early at PC 0x00000100" {
		t.Fatalf("info string: %q", s)
	}
}
