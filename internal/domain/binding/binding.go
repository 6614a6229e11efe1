// Package binding owns the directed trigger -> action wiring of a profile.
package binding

import (
	"github.com/google/uuid"

	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/value"
)

// Filter decides whether a fired value is dispatched.
type Filter func(value.Value) bool

// Transform maps a fired value before it reaches the action.
type Transform func(value.Value) (value.Value, error)

// Binding is one edge of the graph. Source and target are held by name and
// resolved against the graph's slot index on every dispatch.
type Binding struct {
	ID        uuid.UUID
	Source    capability.NamedSlot
	Target    capability.NamedSlot
	Origin    string
	filter    Filter
	transform Transform
}

// HasFilter reports whether a filter is set.
func (b *Binding) HasFilter() bool { return b.filter != nil }

// HasTransform reports whether a transform is set.
func (b *Binding) HasTransform() bool { return b.transform != nil }

// View is the read-only description of a binding.
type View struct {
	ID           string               `json:"id"`
	Source       capability.NamedSlot `json:"source"`
	Target       capability.NamedSlot `json:"target"`
	Origin       string               `json:"origin,omitempty"`
	HasFilter    bool                 `json:"has_filter"`
	HasTransform bool                 `json:"has_transform"`
}

func (b *Binding) view() View {
	return View{
		ID:           b.ID.String(),
		Source:       b.Source,
		Target:       b.Target,
		Origin:       b.Origin,
		HasFilter:    b.HasFilter(),
		HasTransform: b.HasTransform(),
	}
}

// Option configures a binding at AddBinding.
type Option func(*Binding)

// WithFilter skips dispatch whenever f returns false.
func WithFilter(f func(value.Value) bool) Option {
	return func(b *Binding) { b.filter = f }
}

// WithTransform applies t to the fired value before dispatch.
func WithTransform(t func(value.Value) (value.Value, error)) Option {
	return func(b *Binding) { b.transform = t }
}

// WithOrigin tags the binding with who created it, e.g. the composite that
// declared it as a default.
func WithOrigin(origin string) Option {
	return func(b *Binding) { b.Origin = origin }
}
