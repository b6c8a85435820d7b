package hooks

import (
	"fmt"
	"sort"

	"github.com/lunixbochs/hookcorn/go/models"
)

type entry struct {
	hook   Hook
	cookie Cookie
}

type rangeEntry struct {
	entry
	min, max uint32
}

// exact-match hooks, with keys kept sorted so dispatch order never depends on map order
type keyedSet struct {
	hooks map[uint32][]entry
	keys  []uint32
}

func (k *keyedSet) add(key uint32, e entry) {
	if k.hooks == nil {
		k.hooks = make(map[uint32][]entry)
	}
	list, ok := k.hooks[key]
	if !ok {
		i := sort.Search(len(k.keys), func(i int) bool { return k.keys[i] >= key })
		k.keys = append(k.keys, 0)
		copy(k.keys[i+1:], k.keys[i:])
		k.keys[i] = key
	}
	k.hooks[key] = append(list, e)
}

// del removes the entry holding cookie. An emptied key is erased.
func (k *keyedSet) del(c Cookie) (uint32, entry, bool) {
	for _, key := range k.keys {
		list := k.hooks[key]
		for i, e := range list {
			if e.cookie != c {
				continue
			}
			if len(list) == 1 {
				delete(k.hooks, key)
				j := sort.Search(len(k.keys), func(j int) bool { return k.keys[j] >= key })
				k.keys = append(k.keys[:j:j], k.keys[j+1:]...)
			} else {
				k.hooks[key] = append(list[:i:i], list[i+1:]...)
			}
			return key, e, true
		}
	}
	return 0, entry{}, false
}

func (k *keyedSet) count() int {
	n := 0
	for _, list := range k.hooks {
		n += len(list)
	}
	return n
}

// Registry holds every registered hook, by category.
// It is not safe for concurrent use: the emulator drives it from one thread,
// and hooks may add or remove hooks while they run.
type Registry struct {
	cfg  *models.Config
	next Cookie

	pc      keyedSet
	buttons keyedSet
	ranges  [numKinds][]rangeEntry
}

// NewRegistry creates an empty registry. Registration messages go to cfg's output.
func NewRegistry(cfg *models.Config) *Registry {
	return &Registry{cfg: cfg}
}

func describe(kind Kind, min, max uint32) string {
	switch kind {
	case PC:
		return fmt.Sprintf("at PC 0x%08X", min)
	case Input:
		return fmt.Sprintf("for button combination 0x%08X", min)
	case RAMRead:
		return fmt.Sprintf("for reads in RAM range [0x%08X - 0x%08X)", min, max)
	case RAMWrite:
		return fmt.Sprintf("for writes in RAM range [0x%08X - 0x%08X)", min, max)
	case CartRead:
		return fmt.Sprintf("for reads in cart range [0x%08X - 0x%08X)", min, max)
	case CartWrite:
		return fmt.Sprintf("for writes in cart range [0x%08X - 0x%08X)", min, max)
	}
	return kind.String()
}

// HookAdd registers h and returns its cookie.
// PC and Input hooks are keyed on start and ignore end.
// Ranged hooks cover [start, end); a reversed pair is swapped.
func (r *Registry) HookAdd(kind Kind, h Hook, start, end uint32) Cookie {
	e := entry{hook: h, cookie: r.next}
	switch kind {
	case PC:
		r.pc.add(start, e)
	case Input:
		r.buttons.add(start, e)
	case RAMRead, RAMWrite, CartRead, CartWrite:
		if start > end {
			start, end = end, start
		}
		r.ranges[kind] = append(r.ranges[kind], rangeEntry{e, start, end})
	default:
		panic(fmt.Sprintf("unknown hook kind %d", kind))
	}
	r.next++
	r.cfg.Printf("Registered hook %s %s\n", hookName(h), describe(kind, start, end))
	return e.cookie
}

// HookDel removes the hook of the given kind holding cookie.
// Unknown or already removed cookies are ignored.
func (r *Registry) HookDel(kind Kind, c Cookie) {
	switch kind {
	case PC, Input:
		set := &r.pc
		if kind == Input {
			set = &r.buttons
		}
		if key, e, ok := set.del(c); ok {
			r.cfg.Printf("Removed hook %s %s\n", hookName(e.hook), describe(kind, key, 0))
		}
	case RAMRead, RAMWrite, CartRead, CartWrite:
		list := r.ranges[kind]
		for i, e := range list {
			if e.cookie == c {
				r.ranges[kind] = append(list[:i:i], list[i+1:]...)
				r.cfg.Printf("Removed hook %s %s\n", hookName(e.hook), describe(kind, e.min, e.max))
				return
			}
		}
	}
}

// Match returns the hooks an event fires, in dispatch order.
// The result is a copy: registry changes made while running it apply to later events only.
func (r *Registry) Match(ev Event) []Hook {
	var ret []Hook
	switch ev.Kind {
	case PC:
		for _, e := range r.pc.hooks[ev.Addr] {
			ret = append(ret, e.hook)
		}
	case Input:
		live := uint32(ev.Value)
		for _, mask := range r.buttons.keys {
			if mask&live == mask {
				for _, e := range r.buttons.hooks[mask] {
					ret = append(ret, e.hook)
				}
			}
		}
	case RAMRead, RAMWrite, CartRead, CartWrite:
		for i := range r.ranges[ev.Kind] {
			if e := &r.ranges[ev.Kind][i]; e.matches(ev) {
				ret = append(ret, e.hook)
			}
		}
	}
	return ret
}

// Len returns the number of hooks registered for kind.
func (r *Registry) Len(kind Kind) int {
	switch kind {
	case PC:
		return r.pc.count()
	case Input:
		return r.buttons.count()
	case RAMRead, RAMWrite, CartRead, CartWrite:
		return len(r.ranges[kind])
	}
	return 0
}

// Reset drops every hook and restarts cookies from zero.
func (r *Registry) Reset() {
	r.pc = keyedSet{}
	r.buttons = keyedSet{}
	for i := range r.ranges {
		r.ranges[i] = nil
	}
	r.next = 0
}

// Info describes one registered hook.
type Info struct {
	Kind     Kind
	Cookie   Cookie
	Name     string
	Min, Max uint32
}

func (i Info) String() string {
	return fmt.Sprintf("#%d %s %s", i.Cookie, i.Name, describe(i.Kind, i.Min, i.Max))
}

// Hooks lists the hooks registered for kind in registration order.
func (r *Registry) Hooks(kind Kind) []Info {
	var ret []Info
	switch kind {
	case PC, Input:
		set := &r.pc
		if kind == Input {
			set = &r.buttons
		}
		for _, key := range set.keys {
			for _, e := range set.hooks[key] {
				ret = append(ret, Info{kind, e.cookie, hookName(e.hook), key, key})
			}
		}
	case RAMRead, RAMWrite, CartRead, CartWrite:
		for _, e := range r.ranges[kind] {
			ret = append(ret, Info{kind, e.cookie, hookName(e.hook), e.min, e.max})
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Cookie < ret[j].Cookie })
	return ret
}
