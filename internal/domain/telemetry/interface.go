package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/value"
	"github.com/okian/cockpit/pkg/logger"
)

// DefaultInterfaceName is the name panels use to find the telemetry interface.
const DefaultInterfaceName = "Falcon BMS"

// Publisher receives every derived value of a poll.
type Publisher interface {
	Publish(ctx context.Context, category, field string, v value.Value) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, category, field string, v value.Value) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, category, field string, v value.Value) error {
	return f(ctx, category, field, v)
}

// MultiPublisher publishes to every member in order and joins their errors.
type MultiPublisher []Publisher

// Publish implements Publisher.
func (m MultiPublisher) Publish(ctx context.Context, category, field string, v value.Value) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, category, field, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Command is a cockpit element the interface can press in the simulator.
type Command struct {
	Device  string
	Element string
}

// CommandHandler forwards a press or release to the simulator.
type CommandHandler func(ctx context.Context, cmd Command, pressed bool) error

// Interface is the capability component that exposes every catalog value as
// a trigger named Category.Field. Commands add a "<device>.push.<element>"
// action and "<device>.<element>.pushed/released" triggers.
type Interface struct {
	name     string
	reg      *capability.Registry
	log      logger.Logger
	commands []Command
	handler  CommandHandler
}

// InterfaceOption configures an Interface.
type InterfaceOption func(*Interface)

// WithInterfaceName overrides DefaultInterfaceName.
func WithInterfaceName(name string) InterfaceOption {
	return func(i *Interface) {
		if name != "" {
			i.name = name
		}
	}
}

// WithInterfaceLogger sets the logger.
func WithInterfaceLogger(l logger.Logger) InterfaceOption {
	return func(i *Interface) {
		if l != nil {
			i.log = l
		}
	}
}

// WithCommands registers simulator commands.
func WithCommands(cmds ...Command) InterfaceOption {
	return func(i *Interface) { i.commands = append(i.commands, cmds...) }
}

// WithCommandHandler sets where command actions go. Without one, commands
// are logged and dropped.
func WithCommandHandler(h CommandHandler) InterfaceOption {
	return func(i *Interface) { i.handler = h }
}

// NewInterface registers the whole catalog.
func NewInterface(opts ...InterfaceOption) (*Interface, error) {
	i := &Interface{name: DefaultInterfaceName, reg: capability.NewRegistry()}
	for _, opt := range opts {
		opt(i)
	}
	if i.log == nil {
		i.log = logger.Get().Named("telemetry")
	}
	for _, e := range catalog {
		if _, err := i.reg.AddTrigger(e.Category, e.Field,
			capability.WithUnit(e.Unit),
			capability.WithDescription(e.Description),
			capability.WithValueDescription(e.ValueDescription)); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", e.Key(), err)
		}
	}
	for _, cmd := range i.commands {
		if err := i.addCommand(cmd); err != nil {
			return nil, err
		}
	}
	return i, nil
}

func (i *Interface) addCommand(cmd Command) error {
	if _, err := i.reg.AddAction(cmd.Device, "push."+cmd.Element, func(ctx context.Context, v value.Value) error {
		pressed, _ := v.AsBool()
		if i.handler == nil {
			i.log.Debug(ctx, "command dropped",
				logger.String("device", cmd.Device),
				logger.String("element", cmd.Element),
				logger.Bool("pressed", pressed))
			return nil
		}
		return i.handler(ctx, cmd, pressed)
	}, capability.WithUnit(value.UnitBoolean), capability.WithDescription("Press "+cmd.Element)); err != nil {
		return err
	}
	if _, err := i.reg.AddTrigger(cmd.Device, cmd.Element+".pushed", capability.WithUnit(value.UnitBoolean)); err != nil {
		return err
	}
	_, err := i.reg.AddTrigger(cmd.Device, cmd.Element+".released", capability.WithUnit(value.UnitBoolean))
	return err
}

// Name implements capability.Component.
func (i *Interface) Name() string { return i.name }

// Capabilities implements capability.Component.
func (i *Interface) Capabilities() *capability.Registry { return i.reg }

// Publish fires the trigger category.field with v.
func (i *Interface) Publish(ctx context.Context, category, field string, v value.Value) error {
	t, err := i.reg.TriggerAt(capability.Slot(category, field))
	if err != nil {
		return err
	}
	return t.Fire(ctx, v)
}

// Last returns the value most recently published under category.field.
func (i *Interface) Last(category, field string) (value.Value, bool) {
	t, err := i.reg.TriggerAt(capability.Slot(category, field))
	if err != nil {
		return value.Value{}, false
	}
	return t.Last()
}

// Press fires the pushed or released trigger of a registered command, as if
// the simulator had reported the element changing.
func (i *Interface) Press(ctx context.Context, cmd Command, pressed bool) error {
	name := cmd.Element + ".released"
	if pressed {
		name = cmd.Element + ".pushed"
	}
	t, err := i.reg.TriggerAt(capability.Slot(cmd.Device, name))
	if err != nil {
		return err
	}
	return t.Fire(ctx, value.Bool(pressed))
}
