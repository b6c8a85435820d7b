package hooks

import (
	"fmt"
)

// Cookie identifies one registered hook for removal.
type Cookie uint32

// A Hook is invoked with the shared state of the event that matched it.
// Returning an error stops the remaining hooks for that event.
type Hook interface {
	Invoke(s *State, ev Event) error
}

type HookFunc func(s *State, ev Event) error

func (f HookFunc) Invoke(s *State, ev Event) error {
	return f(s, ev)
}

// Hooks implementing Named are logged by name.
type Named interface {
	Name() string
}

// WithName wraps a hook with a display name.
func WithName(name string, h Hook) Hook {
	return &namedHook{name, h}
}

type namedHook struct {
	name string
	Hook
}

func (n *namedHook) Name() string { return n.name }

func hookName(h Hook) string {
	if n, ok := h.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", h)
}
