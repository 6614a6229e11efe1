package composite

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/cockpit/internal/domain/binding"
	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/pkg/logger"
	"github.com/okian/cockpit/pkg/metrics"
)

// Resolution counts the outcome of one ResolveDefaults pass.
type Resolution struct {
	Materialized int
	Existing     int
	Failed       int
}

// ResolveDefaults materializes the declared default bindings against the
// interface the host knows under DefaultInterfaceName.
//
// A missing interface skips everything and returns ErrInterfaceNotFound. A
// template whose child, child slot or interface slot is missing is logged and
// skipped while the rest still apply; those failures are returned joined.
// Templates already materialized by an earlier pass count as Existing.
func (c *Composite) ResolveDefaults(ctx context.Context, host Host) (Resolution, error) {
	var res Resolution
	if c.interfaceName == "" {
		return res, nil
	}
	iface, ok := host.Interface(c.interfaceName)
	if !ok {
		metrics.RecordDefaultBinding("no_interface")
		err := fmt.Errorf("%q for %q: %w", c.interfaceName, c.name, ErrInterfaceNotFound)
		c.log.Error(ctx, "cannot find default interface",
			logger.String("composite", c.name),
			logger.String("interface", c.interfaceName))
		return res, err
	}
	graph := host.Graph()
	ifaceReg := iface.Capabilities()

	var errs []error
	fail := func(msg string, err error, fields ...logger.Field) {
		res.Failed++
		metrics.RecordDefaultBinding("failed")
		errs = append(errs, err)
		c.log.Error(ctx, msg, append(fields, logger.String("composite", c.name), logger.Error(err))...)
	}
	wire := func(source, target capability.NamedSlot) {
		_, err := graph.AddBinding(ctx, source, target, binding.WithOrigin(c.name))
		switch {
		case err == nil:
			res.Materialized++
			metrics.RecordDefaultBinding("materialized")
		case errors.Is(err, binding.ErrDuplicateBinding):
			res.Existing++
		default:
			fail("cannot materialize default binding", err,
				logger.String("source", source.Key()), logger.String("target", target.Key()))
		}
	}

	for _, d := range c.DefaultInputBindings() {
		child, ok := c.Child(d.ChildName)
		if !ok {
			fail("cannot find child", fmt.Errorf("%q: %w", d.ChildName, ErrChildNotFound), logger.String("child", d.ChildName))
			continue
		}
		action, err := child.Capabilities().ActionAt(capability.Slot(child.Name(), d.DeviceActionName))
		if err != nil {
			fail("cannot find action", err, logger.String("child", d.ChildName))
			continue
		}
		trig, err := ifaceReg.Trigger(d.InterfaceTriggerName)
		if err != nil {
			fail("cannot find interface trigger", err, logger.String("interface", iface.Name()))
			continue
		}
		wire(trig.Slot(), action.Slot())
	}

	for _, d := range c.DefaultOutputBindings() {
		child, ok := c.Child(d.ChildName)
		if !ok {
			fail("cannot find child", fmt.Errorf("%q: %w", d.ChildName, ErrChildNotFound), logger.String("child", d.ChildName))
			continue
		}
		trig, err := child.Capabilities().TriggerAt(capability.Slot(child.Name(), d.DeviceTriggerName))
		if err != nil {
			fail("cannot find trigger", err, logger.String("child", d.ChildName))
			continue
		}
		action, err := ifaceReg.Action(d.InterfaceActionName)
		if err != nil {
			fail("cannot find interface action", err, logger.String("interface", iface.Name()))
			continue
		}
		wire(trig.Slot(), action.Slot())
	}

	return res, errors.Join(errs...)
}
