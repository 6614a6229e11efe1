// Package profile holds the interfaces and components of one loaded profile
// and keeps the binding graph in step with them.
package profile

import (
	"context"

	"github.com/okian/cockpit/internal/domain/binding"
	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/composite"
	"github.com/okian/cockpit/pkg/logger"
)

// DefaultBinder is a component that declares default bindings.
type DefaultBinder interface {
	capability.Component
	ResolveDefaults(ctx context.Context, host composite.Host) (composite.Resolution, error)
}

// Resettable is a component that can return to its initial state.
type Resettable interface {
	Reset(ctx context.Context)
}

// Profile owns the binding graph and the two observed collections.
type Profile struct {
	name       string
	log        logger.Logger
	graph      *binding.Graph
	interfaces *Collection
	components *Collection
}

// Option configures a Profile.
type Option func(*Profile)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Profile) {
		if l != nil {
			p.log = l
		}
	}
}

// WithGraph uses g instead of a fresh graph.
func WithGraph(g *binding.Graph) Option {
	return func(p *Profile) {
		if g != nil {
			p.graph = g
		}
	}
}

// New returns an empty profile whose graph follows both collections.
func New(name string, opts ...Option) *Profile {
	p := &Profile{
		name:       name,
		interfaces: NewCollection(),
		components: NewCollection(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get().Named("profile")
	}
	if p.graph == nil {
		p.graph = binding.NewGraph()
	}
	p.interfaces.Subscribe(p.graph)
	p.components.Subscribe(p.graph)
	return p
}

// Name returns the profile name.
func (p *Profile) Name() string { return p.name }

// Graph returns the binding graph.
func (p *Profile) Graph() *binding.Graph { return p.graph }

// Interfaces returns the interface collection.
func (p *Profile) Interfaces() *Collection { return p.interfaces }

// Components returns the component collection.
func (p *Profile) Components() *Collection { return p.components }

// Interface returns the interface registered under name.
func (p *Profile) Interface(name string) (capability.Component, bool) {
	return p.interfaces.Get(name)
}

// AddInterface attaches an interface and re-resolves pending defaults.
func (p *Profile) AddInterface(ctx context.Context, c capability.Component) error {
	if err := p.interfaces.Add(ctx, c); err != nil {
		return err
	}
	p.log.Info(ctx, "interface added", logger.String("profile", p.name), logger.String("interface", c.Name()))
	p.ResolveDefaults(ctx)
	return nil
}

// AddComponent attaches a component and re-resolves pending defaults.
func (p *Profile) AddComponent(ctx context.Context, c capability.Component) error {
	if err := p.components.Add(ctx, c); err != nil {
		return err
	}
	p.log.Debug(ctx, "component added", logger.String("profile", p.name), logger.String("device", c.Name()))
	p.ResolveDefaults(ctx)
	return nil
}

// RemoveInterface detaches the named interface.
func (p *Profile) RemoveInterface(ctx context.Context, name string) error {
	return p.interfaces.Remove(ctx, name)
}

// RemoveComponent detaches the named component.
func (p *Profile) RemoveComponent(ctx context.Context, name string) error {
	return p.components.Remove(ctx, name)
}

// ResolveDefaults asks every DefaultBinder component to materialize its
// defaults. Failures are logged by the binder and never abort the profile.
func (p *Profile) ResolveDefaults(ctx context.Context) map[string]composite.Resolution {
	out := make(map[string]composite.Resolution)
	for _, c := range p.components.Items() {
		b, ok := c.(DefaultBinder)
		if !ok {
			continue
		}
		res, err := b.ResolveDefaults(ctx, p)
		out[c.Name()] = res
		if err != nil {
			p.log.Debug(ctx, "default bindings incomplete",
				logger.String("device", c.Name()),
				logger.Int("materialized", res.Materialized),
				logger.Int("failed", res.Failed))
		}
	}
	return out
}

// Reset resets every component that supports it.
func (p *Profile) Reset(ctx context.Context) {
	for _, c := range p.components.Items() {
		if r, ok := c.(Resettable); ok {
			r.Reset(ctx)
		}
	}
}
