// Package shortcuts is the global keyboard-shortcut registry. Bindings are
// stored under a canonical (lower-cased key, sorted modifiers) combo, so
// re-registering a combo replaces the previous binding. Dispatch consumes
// already-resolved key-down events from the bus; raw input capture belongs
// to the embedding shell.
package shortcuts

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/webdesk/webdesk/internal/bus"
)

const (
	// TopicKeyDown carries resolved key-down events into the registry.
	TopicKeyDown = "input.keydown"
	// TopicFired announces that a binding's action was invoked.
	TopicFired = "shortcut.fired"
)

// KeyEvent is one resolved key-down.
type KeyEvent struct {
	Key       string
	Modifiers []string
	// EditableTarget is true when the focused element accepts text input;
	// non-global bindings do not fire then.
	EditableTarget bool
}

// Binding maps a key combo to an action.
type Binding struct {
	Key            string
	Modifiers      []string
	Action         func()
	Global         bool
	PreventDefault bool
}

// Fired is the payload published on TopicFired.
type Fired struct {
	Combo string
}

// modifier synonyms normalize platform spellings.
var modifierAliases = map[string]string{
	"cmd":     "meta",
	"command": "meta",
	"super":   "meta",
	"win":     "meta",
	"control": "ctrl",
	"option":  "alt",
}

// Canonical builds the lookup key for a combo: sorted lower-cased modifiers
// followed by the lower-cased key, joined with '+'.
func Canonical(key string, modifiers []string) string {
	mods := make([]string, 0, len(modifiers))
	seen := make(map[string]struct{}, len(modifiers))
	for _, m := range modifiers {
		m = strings.ToLower(strings.TrimSpace(m))
		if alias, ok := modifierAliases[m]; ok {
			m = alias
		}
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		mods = append(mods, m)
	}
	sort.Strings(mods)
	parts := append(mods, strings.ToLower(strings.TrimSpace(key)))
	return strings.Join(parts, "+")
}

// Registry holds the active bindings and the bus listener feeding them.
type Registry struct {
	mu       sync.Mutex
	bus      *bus.Bus
	bindings map[string]Binding
	unsub    func()
}

// NewRegistry creates a registry attached to the given bus.
func NewRegistry(b *bus.Bus) *Registry {
	return &Registry{
		bus:      b,
		bindings: make(map[string]Binding),
	}
}

// Register stores a binding, replacing any previous binding for the same
// combo. The first registration starts the key-down listener.
func (r *Registry) Register(b Binding) error {
	if strings.TrimSpace(b.Key) == "" {
		return fmt.Errorf("shortcut key is required")
	}
	if b.Action == nil {
		return fmt.Errorf("shortcut action is required")
	}

	combo := Canonical(b.Key, b.Modifiers)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[combo] = b
	if r.unsub == nil && r.bus != nil {
		r.unsub = r.bus.Subscribe(TopicKeyDown, func(e bus.Event) {
			if ev, ok := e.Payload.(KeyEvent); ok {
				r.Dispatch(ev)
			}
		})
	}
	return nil
}

// Unregister removes the binding for a combo. Removing the last binding
// detaches the key-down listener.
func (r *Registry) Unregister(key string, modifiers []string) {
	combo := Canonical(key, modifiers)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, combo)
	r.detachIfEmptyLocked()
}

// UnregisterAll drops every binding and stops the underlying listener, so no
// global capture lingers once no shortcuts remain.
func (r *Registry) UnregisterAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = make(map[string]Binding)
	r.detachIfEmptyLocked()
}

func (r *Registry) detachIfEmptyLocked() {
	if len(r.bindings) == 0 && r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
}

// Len returns the number of registered bindings.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings)
}

// Dispatch looks up the event's combo and invokes the bound action when the
// binding is global or the focused target is not editable. It reports
// whether a binding handled the event and whether the default behavior
// should be suppressed. At most one action runs per event.
func (r *Registry) Dispatch(ev KeyEvent) (handled, preventDefault bool) {
	combo := Canonical(ev.Key, ev.Modifiers)

	r.mu.Lock()
	b, ok := r.bindings[combo]
	r.mu.Unlock()
	if !ok {
		return false, false
	}
	if ev.EditableTarget && !b.Global {
		return false, false
	}

	b.Action()
	if r.bus != nil {
		r.bus.Publish(TopicFired, Fired{Combo: combo})
	}
	return true, b.PreventDefault
}
