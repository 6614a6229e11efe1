package capability

import (
	"context"
	"sync"

	"github.com/okian/cockpit/internal/domain/value"
)

// meta is shared descriptive data for triggers and actions.
type meta struct {
	unit             value.Unit
	description      string
	valueDescription string
}

// SlotOption decorates a trigger or action at registration.
type SlotOption func(*meta)

// WithUnit documents the unit of values carried by the slot.
func WithUnit(u value.Unit) SlotOption {
	return func(m *meta) { m.unit = u }
}

// WithDescription sets the human readable description.
func WithDescription(d string) SlotOption {
	return func(m *meta) { m.description = d }
}

// WithValueDescription documents how to read the carried value, e.g. "True if lit".
func WithValueDescription(d string) SlotOption {
	return func(m *meta) { m.valueDescription = d }
}

// Trigger is a named event source. It remembers the last value it fired.
type Trigger struct {
	slot NamedSlot
	meta meta

	mu         sync.RWMutex
	last       value.Value
	fired      bool
	dispatcher Dispatcher
}

// Dispatcher routes a trigger firing to whatever is bound to it.
type Dispatcher interface {
	Dispatch(ctx context.Context, source NamedSlot, v value.Value) error
}

// Slot returns the trigger's name.
func (t *Trigger) Slot() NamedSlot { return t.slot }

// Unit returns the documented unit.
func (t *Trigger) Unit() value.Unit { return t.meta.unit }

// Description returns the registration description.
func (t *Trigger) Description() string { return t.meta.description }

// ValueDescription returns the documented reading of the value.
func (t *Trigger) ValueDescription() string { return t.meta.valueDescription }

// Last returns the most recently fired value and whether the trigger has fired.
func (t *Trigger) Last() (value.Value, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last, t.fired
}

// Record stores v as the last fired value.
func (t *Trigger) Record(v value.Value) {
	t.mu.Lock()
	t.last = v
	t.fired = true
	t.mu.Unlock()
}

// Attach routes future firings to d. A nil d detaches.
func (t *Trigger) Attach(d Dispatcher) {
	t.mu.Lock()
	t.dispatcher = d
	t.mu.Unlock()
}

// Fire records v and hands it to the attached dispatcher, if any.
func (t *Trigger) Fire(ctx context.Context, v value.Value) error {
	t.mu.Lock()
	t.last = v
	t.fired = true
	d := t.dispatcher
	t.mu.Unlock()
	if d == nil {
		return nil
	}
	return d.Dispatch(ctx, t.slot, v)
}

// Executor applies a value to component state.
type Executor func(ctx context.Context, v value.Value) error

// Action is a named sink with component-specific side effects.
type Action struct {
	slot NamedSlot
	meta meta
	exec Executor
}

// Slot returns the action's name.
func (a *Action) Slot() NamedSlot { return a.slot }

// Unit returns the documented unit of accepted values.
func (a *Action) Unit() value.Unit { return a.meta.unit }

// Description returns the registration description.
func (a *Action) Description() string { return a.meta.description }

// Execute applies v.
func (a *Action) Execute(ctx context.Context, v value.Value) error {
	if a.exec == nil {
		return nil
	}
	return a.exec(ctx, v)
}
