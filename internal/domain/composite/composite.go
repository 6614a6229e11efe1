// Package composite builds panels out of named child controls and declares
// the default wiring between those children and an external interface.
//
// Default bindings are recorded as intent when the panel is built and only
// materialized by ResolveDefaults, once the panel is attached to a host that
// knows the interface by name.
package composite

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/cockpit/internal/domain/binding"
	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/controls"
	"github.com/okian/cockpit/pkg/logger"
)

// DefaultInputBinding wires an interface trigger to a child action.
type DefaultInputBinding struct {
	ChildName            string
	InterfaceTriggerName string
	DeviceActionName     string
}

// DefaultOutputBinding wires a child trigger to an interface action.
type DefaultOutputBinding struct {
	ChildName           string
	DeviceTriggerName   string
	InterfaceActionName string
}

// Host is where a composite is attached.
type Host interface {
	Interface(name string) (capability.Component, bool)
	Graph() *binding.Graph
}

// Composite is a panel of named children.
type Composite struct {
	name          string
	reg           *capability.Registry
	log           logger.Logger
	interfaceName string

	mu       sync.Mutex
	children map[string]capability.Component
	order    []string
	inputs   []DefaultInputBinding
	outputs  []DefaultOutputBinding
}

// Option configures a Composite.
type Option func(*Composite)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Composite) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDefaultInterface names the interface default bindings resolve against.
func WithDefaultInterface(name string) Option {
	return func(c *Composite) { c.interfaceName = name }
}

// New returns an empty composite.
func New(name string, opts ...Option) *Composite {
	c := &Composite{
		name:     name,
		reg:      capability.NewRegistry(),
		children: make(map[string]capability.Component),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("composite")
	}
	return c
}

// Name returns the composite name.
func (c *Composite) Name() string { return c.name }

// Capabilities returns the composite's registry, which re-exposes every
// child slot.
func (c *Composite) Capabilities() *capability.Registry { return c.reg }

// DefaultInterfaceName returns the interface default bindings resolve against.
func (c *Composite) DefaultInterfaceName() string { return c.interfaceName }

// ChildName prefixes name with the composite name.
func (c *Composite) ChildName(name string) string { return c.name + "_" + name }

// AddChild adds child and re-exposes all its triggers and actions.
func (c *Composite) AddChild(child capability.Component) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.children[child.Name()]; ok {
		return fmt.Errorf("%q: %w", child.Name(), ErrDuplicateChild)
	}
	for _, t := range child.Capabilities().Triggers() {
		if err := c.reg.ExposeTrigger(t); err != nil {
			return err
		}
	}
	for _, a := range child.Capabilities().Actions() {
		if err := c.reg.ExposeAction(a); err != nil {
			return err
		}
	}
	c.children[child.Name()] = child
	c.order = append(c.order, child.Name())
	return nil
}

// Child returns the named child.
func (c *Composite) Child(name string) (capability.Component, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.children[name]
	return ch, ok
}

// Children returns the children in insertion order.
func (c *Composite) Children() []capability.Component {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]capability.Component, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.children[n])
	}
	return out
}

func (c *Composite) mustAdd(child capability.Component) {
	if err := c.AddChild(child); err != nil {
		panic(err)
	}
}

// AddIndicator adds an indicator named "<composite>_Annunciator <name>".
func (c *Composite) AddIndicator(name string) *controls.Indicator {
	ind := controls.NewIndicator(c.ChildName("Annunciator " + name))
	c.mustAdd(ind)
	return ind
}

// AddButton adds a push button and declares its four default bindings against
// the interface element deviceName/elementName.
func (c *Composite) AddButton(name, deviceName, elementName string) *controls.PushButton {
	childName := c.ChildName(name)
	b := controls.NewPushButton(childName)
	c.mustAdd(b)
	c.AddDefaultOutputBinding(childName, controls.TriggerPushed, deviceName+".push."+elementName)
	c.AddDefaultOutputBinding(childName, controls.TriggerReleased, deviceName+".push."+elementName)
	c.AddDefaultInputBinding(childName, deviceName+"."+elementName+".pushed", controls.ActionPush)
	c.AddDefaultInputBinding(childName, deviceName+"."+elementName+".released", controls.ActionRelease)
	return b
}

// AddTextDisplay adds a text display.
func (c *Composite) AddTextDisplay(name string) *controls.TextDisplay {
	d := controls.NewTextDisplay(c.ChildName(name))
	c.mustAdd(d)
	return d
}

// AddPot adds a potentiometer.
func (c *Composite) AddPot(name string, minValue, maxValue, initial float64) *controls.Potentiometer {
	p := controls.NewPotentiometer(c.ChildName(name), minValue, maxValue, initial)
	c.mustAdd(p)
	return p
}

// AddToggle adds a three way toggle.
func (c *Composite) AddToggle(name string, initial int) *controls.ThreeWayToggle {
	t := controls.NewThreeWayToggle(c.ChildName(name), initial)
	c.mustAdd(t)
	return t
}

// AddDefaultInputBinding declares interfaceTrigger -> child.deviceAction.
func (c *Composite) AddDefaultInputBinding(childName, interfaceTriggerName, deviceActionName string) {
	c.mu.Lock()
	c.inputs = append(c.inputs, DefaultInputBinding{
		ChildName:            childName,
		InterfaceTriggerName: interfaceTriggerName,
		DeviceActionName:     deviceActionName,
	})
	c.mu.Unlock()
}

// AddDefaultOutputBinding declares child.deviceTrigger -> interfaceAction.
func (c *Composite) AddDefaultOutputBinding(childName, deviceTriggerName, interfaceActionName string) {
	c.mu.Lock()
	c.outputs = append(c.outputs, DefaultOutputBinding{
		ChildName:           childName,
		DeviceTriggerName:   deviceTriggerName,
		InterfaceActionName: interfaceActionName,
	})
	c.mu.Unlock()
}

// DefaultInputBindings returns a copy of the declared input templates.
func (c *Composite) DefaultInputBindings() []DefaultInputBinding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]DefaultInputBinding(nil), c.inputs...)
}

// DefaultOutputBindings returns a copy of the declared output templates.
func (c *Composite) DefaultOutputBindings() []DefaultOutputBinding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]DefaultOutputBinding(nil), c.outputs...)
}

// Reset resets every child that supports it.
func (c *Composite) Reset(ctx context.Context) {
	for _, ch := range c.Children() {
		if r, ok := ch.(controls.Resetter); ok {
			r.Reset(ctx)
		}
	}
}
