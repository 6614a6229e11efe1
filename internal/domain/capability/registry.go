package capability

import (
	"fmt"
	"sync"
)

// Component is anything that exposes triggers and actions.
type Component interface {
	Name() string
	Capabilities() *Registry
}

// Registry maps slots to the triggers and actions of one component.
// Iteration follows registration order.
type Registry struct {
	mu           sync.RWMutex
	triggers     map[NamedSlot]*Trigger
	actions      map[NamedSlot]*Action
	triggerOrder []NamedSlot
	actionOrder  []NamedSlot
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		triggers: make(map[NamedSlot]*Trigger),
		actions:  make(map[NamedSlot]*Action),
	}
}

// AddTrigger registers a new trigger under device/name.
func (r *Registry) AddTrigger(device, name string, opts ...SlotOption) (*Trigger, error) {
	slot := Slot(device, name)
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	t := &Trigger{slot: slot}
	for _, opt := range opts {
		opt(&t.meta)
	}
	if err := r.ExposeTrigger(t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddAction registers a new action under device/name.
func (r *Registry) AddAction(device, name string, exec Executor, opts ...SlotOption) (*Action, error) {
	slot := Slot(device, name)
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	a := &Action{slot: slot, exec: exec}
	for _, opt := range opts {
		opt(&a.meta)
	}
	if err := r.ExposeAction(a); err != nil {
		return nil, err
	}
	return a, nil
}

// MustAddTrigger is AddTrigger for fixed, known-good names. It panics on error.
func (r *Registry) MustAddTrigger(device, name string, opts ...SlotOption) *Trigger {
	t, err := r.AddTrigger(device, name, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// MustAddAction is AddAction for fixed, known-good names. It panics on error.
func (r *Registry) MustAddAction(device, name string, exec Executor, opts ...SlotOption) *Action {
	a, err := r.AddAction(device, name, exec, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// ExposeTrigger adds an existing trigger, typically a child's, to r.
// Exposing the same trigger twice is a no-op.
func (r *Registry) ExposeTrigger(t *Trigger) error {
	slot := t.slot
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.triggers[slot]; ok {
		if existing == t {
			return nil
		}
		return fmt.Errorf("trigger %q: %w", slot, ErrDuplicateSlot)
	}
	r.triggers[slot] = t
	r.triggerOrder = append(r.triggerOrder, slot)
	return nil
}

// ExposeAction adds an existing action, typically a child's, to r.
// Exposing the same action twice is a no-op.
func (r *Registry) ExposeAction(a *Action) error {
	slot := a.slot
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.actions[slot]; ok {
		if existing == a {
			return nil
		}
		return fmt.Errorf("action %q: %w", slot, ErrDuplicateSlot)
	}
	r.actions[slot] = a
	r.actionOrder = append(r.actionOrder, slot)
	return nil
}

// TriggerAt looks up the trigger at slot.
func (r *Registry) TriggerAt(slot NamedSlot) (*Trigger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.triggers[slot]
	if !ok {
		return nil, fmt.Errorf("trigger %q: %w", slot, ErrUnknownSlot)
	}
	return t, nil
}

// ActionAt looks up the action at slot.
func (r *Registry) ActionAt(slot NamedSlot) (*Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[slot]
	if !ok {
		return nil, fmt.Errorf("action %q: %w", slot, ErrUnknownSlot)
	}
	return a, nil
}

// Trigger looks up a trigger by its dotted key ("<device>.<name>"). A key that
// more than one slot renders to is ErrAmbiguousSlot.
func (r *Registry) Trigger(key string) (*Trigger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *Trigger
	for _, slot := range r.triggerOrder {
		if slot.Key() != key {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("trigger %q: %w", key, ErrAmbiguousSlot)
		}
		found = r.triggers[slot]
	}
	if found == nil {
		return nil, fmt.Errorf("trigger %q: %w", key, ErrUnknownSlot)
	}
	return found, nil
}

// Action looks up an action by its dotted key ("<device>.<name>"). A key that
// more than one slot renders to is ErrAmbiguousSlot.
func (r *Registry) Action(key string) (*Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *Action
	for _, slot := range r.actionOrder {
		if slot.Key() != key {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("action %q: %w", key, ErrAmbiguousSlot)
		}
		found = r.actions[slot]
	}
	if found == nil {
		return nil, fmt.Errorf("action %q: %w", key, ErrUnknownSlot)
	}
	return found, nil
}

// Triggers returns all triggers in registration order.
func (r *Registry) Triggers() []*Trigger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Trigger, 0, len(r.triggerOrder))
	for _, slot := range r.triggerOrder {
		out = append(out, r.triggers[slot])
	}
	return out
}

// Actions returns all actions in registration order.
func (r *Registry) Actions() []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Action, 0, len(r.actionOrder))
	for _, slot := range r.actionOrder {
		out = append(out, r.actions[slot])
	}
	return out
}
