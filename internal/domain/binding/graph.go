package binding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/dedupe"
	"github.com/okian/cockpit/internal/domain/value"
	"github.com/okian/cockpit/pkg/logger"
	"github.com/okian/cockpit/pkg/metrics"
)

// Graph owns every binding of a loaded profile and indexes the triggers and
// actions of attached components by slot.
//
// Dispatch for one source runs in binding insertion order. Actions run outside
// the graph lock, so an action may fire further triggers.
type Graph struct {
	log    logger.Logger
	dedupe dedupe.Deduper

	mu       sync.RWMutex
	triggers map[capability.NamedSlot]*capability.Trigger
	actions  map[capability.NamedSlot]*capability.Action
	bindings []*Binding
	bySource map[capability.NamedSlot][]*Binding
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithLogger sets the graph logger.
func WithLogger(l logger.Logger) GraphOption {
	return func(g *Graph) {
		if l != nil {
			g.log = l
		}
	}
}

// WithDeduper replaces the duplicate-binding tracker.
func WithDeduper(d dedupe.Deduper) GraphOption {
	return func(g *Graph) {
		if d != nil {
			g.dedupe = d
		}
	}
}

// NewGraph returns an empty graph.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		triggers: make(map[capability.NamedSlot]*capability.Trigger),
		actions:  make(map[capability.NamedSlot]*capability.Action),
		bySource: make(map[capability.NamedSlot][]*Binding),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Get().Named("binding")
	}
	if g.dedupe == nil {
		g.dedupe = dedupe.NewInMemoryDeduper()
	}
	return g
}

// Register indexes every trigger and action of c and routes its triggers
// through the graph. A slot already held by another component is skipped and
// reported.
func (g *Graph) Register(ctx context.Context, c capability.Component) error {
	reg := c.Capabilities()
	var errs []error

	g.mu.Lock()
	for _, t := range reg.Triggers() {
		slot := t.Slot()
		if existing, ok := g.triggers[slot]; ok && existing != t {
			errs = append(errs, fmt.Errorf("trigger %q of %q: %w", slot, c.Name(), capability.ErrDuplicateSlot))
			continue
		}
		g.triggers[slot] = t
		t.Attach(g)
	}
	for _, a := range reg.Actions() {
		slot := a.Slot()
		if existing, ok := g.actions[slot]; ok && existing != a {
			errs = append(errs, fmt.Errorf("action %q of %q: %w", slot, c.Name(), capability.ErrDuplicateSlot))
			continue
		}
		g.actions[slot] = a
	}
	g.mu.Unlock()

	err := errors.Join(errs...)
	if err != nil {
		g.log.Warn(ctx, "component registered with conflicting slots",
			logger.String("device", c.Name()), logger.Error(err))
	}
	return err
}

// Unregister drops c's slots from the index. Bindings that name them stay in
// place and resume working if the slots are registered again.
func (g *Graph) Unregister(_ context.Context, c capability.Component) {
	reg := c.Capabilities()
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range reg.Triggers() {
		slot := t.Slot()
		if g.triggers[slot] == t {
			delete(g.triggers, slot)
			t.Attach(nil)
		}
	}
	for _, a := range reg.Actions() {
		slot := a.Slot()
		if g.actions[slot] == a {
			delete(g.actions, slot)
		}
	}
}

// OnAdded registers a component added to an observed collection.
func (g *Graph) OnAdded(ctx context.Context, c capability.Component) {
	_ = g.Register(ctx, c)
}

// OnRemoved unregisters a component removed from an observed collection.
func (g *Graph) OnRemoved(ctx context.Context, c capability.Component) {
	g.Unregister(ctx, c)
}

// Trigger returns the indexed trigger at slot.
func (g *Graph) Trigger(slot capability.NamedSlot) (*capability.Trigger, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.triggers[slot]
	return t, ok
}

// Action returns the indexed action at slot.
func (g *Graph) Action(slot capability.NamedSlot) (*capability.Action, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a, ok := g.actions[slot]
	return a, ok
}

// AddBinding wires source to target. Both must be registered at call time.
// A second binding between the same pair is rejected with ErrDuplicateBinding.
func (g *Graph) AddBinding(ctx context.Context, source, target capability.NamedSlot, opts ...Option) (uuid.UUID, error) {
	b := &Binding{ID: uuid.New(), Source: source, Target: target}
	for _, opt := range opts {
		opt(b)
	}

	g.mu.Lock()
	_, hasSource := g.triggers[source]
	_, hasTarget := g.actions[target]
	g.mu.Unlock()

	switch {
	case !hasSource:
		return uuid.Nil, g.reject(ctx, b, "unknown_source", fmt.Errorf("%q: %w", source.Key(), ErrUnknownSource))
	case !hasTarget:
		return uuid.Nil, g.reject(ctx, b, "unknown_target", fmt.Errorf("%q: %w", target.Key(), ErrUnknownTarget))
	}

	sig := signature(source, target)
	if g.dedupe.SeenAndRecord(ctx, sig) {
		return uuid.Nil, fmt.Errorf("%s -> %s: %w", source, target, ErrDuplicateBinding)
	}

	g.mu.Lock()
	g.bindings = append(g.bindings, b)
	g.bySource[source] = append(g.bySource[source], b)
	n := len(g.bindings)
	g.mu.Unlock()

	metrics.UpdateBindingsActive(n)
	g.log.Debug(ctx, "binding added",
		logger.String("id", b.ID.String()),
		logger.String("source", source.Key()),
		logger.String("target", target.Key()))
	return b.ID, nil
}

func (g *Graph) reject(ctx context.Context, b *Binding, reason string, err error) error {
	metrics.RecordBindingRejected(reason)
	g.log.Warn(ctx, "binding rejected",
		logger.String("source", b.Source.Key()),
		logger.String("target", b.Target.Key()),
		logger.String("origin", b.Origin),
		logger.Error(err))
	return err
}

// Remove deletes the binding with id.
func (g *Graph) Remove(ctx context.Context, id uuid.UUID) error {
	g.mu.Lock()
	idx := -1
	for i, b := range g.bindings {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		g.mu.Unlock()
		return fmt.Errorf("%s: %w", id, ErrBindingNotFound)
	}
	b := g.bindings[idx]
	g.bindings = append(g.bindings[:idx], g.bindings[idx+1:]...)
	key := b.Source
	list := g.bySource[key]
	for i, other := range list {
		if other == b {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(g.bySource, key)
	} else {
		g.bySource[key] = list
	}
	n := len(g.bindings)
	g.mu.Unlock()

	g.dedupe.Unrecord(ctx, signature(b.Source, b.Target))
	metrics.UpdateBindingsActive(n)
	return nil
}

// Bindings lists every binding in insertion order.
func (g *Graph) Bindings() []View {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]View, 0, len(g.bindings))
	for _, b := range g.bindings {
		out = append(out, b.view())
	}
	return out
}

// Len returns the number of bindings.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.bindings)
}

// Fire fires the registered trigger at source with v.
func (g *Graph) Fire(ctx context.Context, source capability.NamedSlot, v value.Value) error {
	t, ok := g.Trigger(source)
	if !ok {
		return fmt.Errorf("%q: %w", source.Key(), ErrUnknownSource)
	}
	return t.Fire(ctx, v)
}

// Dispatch runs every binding whose source is source. Failures of one binding
// do not stop the others; they are logged and returned joined.
func (g *Graph) Dispatch(ctx context.Context, source capability.NamedSlot, v value.Value) error {
	metrics.RecordTriggerFiring()

	g.mu.RLock()
	list := g.bySource[source]
	pending := make([]*Binding, len(list))
	copy(pending, list)
	g.mu.RUnlock()

	var errs []error
	for _, b := range pending {
		if b.filter != nil && !b.filter(v) {
			metrics.RecordBindingFiltered()
			continue
		}
		out := v
		if b.transform != nil {
			var err error
			if out, err = b.transform(v); err != nil {
				errs = append(errs, g.dispatchFailed(ctx, b, fmt.Errorf("transform: %w", err)))
				continue
			}
		}
		a, ok := g.Action(b.Target)
		if !ok {
			errs = append(errs, g.dispatchFailed(ctx, b, fmt.Errorf("%q: %w", b.Target.Key(), ErrUnknownTarget)))
			continue
		}
		if err := a.Execute(ctx, out); err != nil {
			errs = append(errs, g.dispatchFailed(ctx, b, err))
			continue
		}
		metrics.RecordBindingDispatch()
	}
	return errors.Join(errs...)
}

func (g *Graph) dispatchFailed(ctx context.Context, b *Binding, err error) error {
	metrics.RecordActionError()
	g.log.Warn(ctx, "binding dispatch failed",
		logger.String("id", b.ID.String()),
		logger.String("source", b.Source.Key()),
		logger.String("target", b.Target.Key()),
		logger.Error(err))
	return err
}

func signature(source, target capability.NamedSlot) string {
	return dedupe.Signature(source.Device, source.Name, target.Device, target.Name)
}
