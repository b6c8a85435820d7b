package hooks

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/hookcorn/go/models"
	"github.com/lunixbochs/hookcorn/go/models/cpu"
)

// Engine turns core events into hook calls. It implements cpu.Dispatcher.
//
// For each event it matches hooks, takes one State from the core, runs the
// hooks in order against that shared State, then writes the registers back
// exactly once. Hooks therefore see each other's changes within an event.
type Engine struct {
	reg  *Registry
	caps Caps
	cfg  *models.Config
}

func NewEngine(reg *Registry, caps Caps, cfg *models.Config) *Engine {
	return &Engine{reg: reg, caps: caps, cfg: cfg}
}

func (e *Engine) Registry() *Registry { return e.reg }
func (e *Engine) Caps() Caps          { return e.caps }

// Dispatch runs the hooks matching ev against core.
// A nil core, a disabled kind or no matching hooks is a no-op.
// The first hook error stops the event; registers changed by earlier hooks
// are still committed.
func (e *Engine) Dispatch(core cpu.Core, ev Event) error {
	if core == nil || !e.caps.Has(ev.Kind) {
		return nil
	}
	hooks := e.reg.Match(ev)
	if len(hooks) == 0 {
		return nil
	}
	s := newState(core)
	before := s.Regs
	defer func() {
		s.commit()
		if e.cfg != nil && e.cfg.Verbose {
			changes := models.RegChanges(&before, &s.Regs, true)
			if len(changes.Changes) > 0 {
				e.cfg.Printf("[%s]\n%s", ev, changes.String(e.cfg.Color))
			}
		}
	}()
	for _, h := range hooks {
		if err := h.Invoke(s, ev); err != nil {
			return errors.Wrapf(err, "%s hook %s", ev.Kind, hookName(h))
		}
	}
	return nil
}

func (e *Engine) OnPC(c cpu.Core) error {
	if c == nil {
		return nil
	}
	return e.Dispatch(c, Event{Kind: PC, Addr: c.Regs().PC})
}

func (e *Engine) OnInput(c cpu.Core, buttons uint32) error {
	return e.Dispatch(c, Event{Kind: Input, Value: uint64(buttons)})
}

func (e *Engine) OnRAMRead(c cpu.Core, addr uint32) error {
	return e.Dispatch(c, Event{Kind: RAMRead, Addr: addr})
}

func (e *Engine) OnRAMWrite(c cpu.Core, addr uint32, value, mask uint64) error {
	return e.Dispatch(c, Event{Kind: RAMWrite, Addr: addr, Value: value, Mask: mask})
}

func (e *Engine) OnCartRead(c cpu.Core, base, length, dst uint32) error {
	return e.Dispatch(c, Event{Kind: CartRead, Addr: base, Value: uint64(length), Mask: uint64(dst)})
}

func (e *Engine) OnCartWrite(c cpu.Core, base, length, dst uint32) error {
	return e.Dispatch(c, Event{Kind: CartWrite, Addr: base, Value: uint64(length), Mask: uint64(dst)})
}
