// Package hotkeys keeps shortcut bindings for the fixed actions and for each
// preset. Preset bindings are keyed by list position ("preset-<index>").
package hotkeys

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrUnknownBinding = errors.New("no binding with this id")
	ErrEmptyShortcut  = errors.New("shortcut spec is empty")
)

// Registry is the global shortcut facility of the host.
type Registry interface {
	Register(id, shortcut string, fn func()) error
	Unregister(id string)
}

// Binding is one registered shortcut.
type Binding struct {
	ID       string `json:"id"`
	Shortcut string `json:"shortcut"`
	fn       func()
}

// MemoryRegistry holds bindings in process. An external key daemon fires
// them through Trigger (exposed over the HTTP API).
type MemoryRegistry struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{bindings: make(map[string]Binding)}
}

// Register replaces any binding with the same id.
func (r *MemoryRegistry) Register(id, shortcut string, fn func()) error {
	if shortcut == "" {
		return ErrEmptyShortcut
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[id] = Binding{ID: id, Shortcut: shortcut, fn: fn}
	return nil
}

func (r *MemoryRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, id)
}

// Bindings returns all bindings sorted by id.
func (r *MemoryRegistry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lookup returns the binding with id.
func (r *MemoryRegistry) Lookup(id string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[id]
	return b, ok
}

// Trigger invokes the callback bound to id, or the binding whose shortcut
// equals id when no binding has that id.
func (r *MemoryRegistry) Trigger(id string) error {
	r.mu.RLock()
	b, ok := r.bindings[id]
	if !ok {
		for _, candidate := range r.bindings {
			if candidate.Shortcut == id {
				b, ok = candidate, true
				break
			}
		}
	}
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBinding, id)
	}
	b.fn()
	return nil
}
