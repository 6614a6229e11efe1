package composite_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/cockpit/internal/domain/binding"
	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/composite"
	"github.com/okian/cockpit/internal/domain/value"
	"github.com/okian/cockpit/pkg/logger"
)

func init() {
	_ = logger.Init()
}

type iface struct {
	name    string
	reg     *capability.Registry
	actions []string
}

func (i *iface) Name() string                         { return i.name }
func (i *iface) Capabilities() *capability.Registry { return i.reg }

func newIface(name string) *iface {
	i := &iface{name: name, reg: capability.NewRegistry()}
	i.reg.MustAddTrigger("UFC", "RCL.pushed")
	i.reg.MustAddTrigger("UFC", "RCL.released")
	i.reg.MustAddTrigger("Caution", "probe heat indicator")
	i.reg.MustAddAction("UFC", "push.RCL", func(_ context.Context, v value.Value) error {
		i.actions = append(i.actions, v.String())
		return nil
	})
	return i
}

type host struct {
	graph  *binding.Graph
	ifaces map[string]capability.Component
}

func (h *host) Interface(name string) (capability.Component, bool) {
	c, ok := h.ifaces[name]
	return c, ok
}

func (h *host) Graph() *binding.Graph { return h.graph }

func newPanel() *composite.Composite {
	c := composite.New("UFC Panel", composite.WithDefaultInterface("Falcon BMS"))
	c.AddButton("RCL", "UFC", "RCL")
	ind := c.AddIndicator("PROBE HEAT")
	c.AddDefaultInputBinding(ind.Name(), "Caution.probe heat indicator", "set.indicator")
	return c
}

func TestBuild(t *testing.T) {
	Convey("Given a panel built with helpers", t, func() {
		c := newPanel()

		Convey("Then child names are prefixed", func() {
			_, ok := c.Child("UFC Panel_RCL")
			So(ok, ShouldBeTrue)
			_, ok = c.Child("UFC Panel_Annunciator PROBE HEAT")
			So(ok, ShouldBeTrue)
		})

		Convey("Then AddButton declares four default bindings", func() {
			So(len(c.DefaultOutputBindings()), ShouldEqual, 2)
			So(c.DefaultOutputBindings()[0].InterfaceActionName, ShouldEqual, "UFC.push.RCL")
			So(len(c.DefaultInputBindings()), ShouldEqual, 3)
			So(c.DefaultInputBindings()[0].InterfaceTriggerName, ShouldEqual, "UFC.RCL.pushed")
			So(c.DefaultInputBindings()[1].DeviceActionName, ShouldEqual, "release")
		})

		Convey("Then child slots are re-exposed by the composite", func() {
			_, err := c.Capabilities().Action("UFC Panel_RCL.push")
			So(err, ShouldBeNil)
			_, err = c.Capabilities().Trigger("UFC Panel_Annunciator PROBE HEAT.lit changed")
			So(err, ShouldBeNil)
		})

		Convey("Then adding a child twice fails", func() {
			child, _ := c.Child("UFC Panel_RCL")
			So(errors.Is(c.AddChild(child), composite.ErrDuplicateChild), ShouldBeTrue)
		})
	})
}

func TestResolveDefaults(t *testing.T) {
	Convey("Given a panel attached to a host", t, func() {
		ctx := context.Background()
		c := newPanel()
		h := &host{graph: binding.NewGraph(), ifaces: map[string]capability.Component{}}
		So(h.graph.Register(ctx, c), ShouldBeNil)

		Convey("When the default interface is absent", func() {
			res, err := c.ResolveDefaults(ctx, h)

			Convey("Then nothing materializes and an error is reported", func() {
				So(errors.Is(err, composite.ErrInterfaceNotFound), ShouldBeTrue)
				So(res.Materialized, ShouldEqual, 0)
				So(h.graph.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the interface becomes available", func() {
			i := newIface("Falcon BMS")
			h.ifaces["Falcon BMS"] = i
			So(h.graph.Register(ctx, i), ShouldBeNil)

			res, err := c.ResolveDefaults(ctx, h)

			Convey("Then every declared binding materializes", func() {
				So(err, ShouldBeNil)
				So(res.Materialized, ShouldEqual, 5)
				So(h.graph.Len(), ShouldEqual, 5)
			})

			Convey("Then a repeated attach adds nothing", func() {
				again, err := c.ResolveDefaults(ctx, h)
				So(err, ShouldBeNil)
				So(again.Materialized, ShouldEqual, 0)
				So(again.Existing, ShouldEqual, 5)
				So(h.graph.Len(), ShouldEqual, 5)
			})

			Convey("Then interface triggers drive the children", func() {
				So(h.graph.Fire(ctx, capability.Slot("Caution", "probe heat indicator"), value.Bool(true)), ShouldBeNil)
				ind, _ := c.Child("UFC Panel_Annunciator PROBE HEAT")
				lit, _ := ind.Capabilities().Trigger("UFC Panel_Annunciator PROBE HEAT.lit changed")
				v, fired := lit.Last()
				So(fired, ShouldBeTrue)
				So(v.RawBool(), ShouldBeTrue)
			})

			Convey("Then pushing the button reaches the interface action", func() {
				So(h.graph.Fire(ctx, capability.Slot("UFC", "RCL.pushed"), value.Bool(true)), ShouldBeNil)
				So(len(i.actions), ShouldEqual, 1)
			})
		})

		Convey("When some templates cannot be resolved", func() {
			i := newIface("Falcon BMS")
			h.ifaces["Falcon BMS"] = i
			So(h.graph.Register(ctx, i), ShouldBeNil)
			c.AddDefaultInputBinding("UFC Panel_nope", "UFC.RCL.pushed", "push")
			c.AddDefaultInputBinding("UFC Panel_RCL", "UFC.missing", "push")
			c.AddDefaultOutputBinding("UFC Panel_RCL", "pushed", "UFC.missing")

			res, err := c.ResolveDefaults(ctx, h)

			Convey("Then the others still apply", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, composite.ErrChildNotFound), ShouldBeTrue)
				So(errors.Is(err, capability.ErrUnknownSlot), ShouldBeTrue)
				So(res.Failed, ShouldEqual, 3)
				So(res.Materialized, ShouldEqual, 5)
			})
		})

		Convey("When the composite has no default interface", func() {
			bare := composite.New("Bare")
			res, err := bare.ResolveDefaults(ctx, h)
			So(err, ShouldBeNil)
			So(res, ShouldResemble, composite.Resolution{})
		})
	})
}

func TestReset(t *testing.T) {
	Convey("Given a panel with a lit indicator", t, func() {
		ctx := context.Background()
		c := newPanel()
		a, err := c.Capabilities().Action("UFC Panel_Annunciator PROBE HEAT.set.indicator")
		So(err, ShouldBeNil)
		So(a.Execute(ctx, value.Bool(true)), ShouldBeNil)

		Convey("When reset", func() {
			c.Reset(ctx)
			lit, _ := c.Capabilities().Trigger("UFC Panel_Annunciator PROBE HEAT.lit changed")
			v, _ := lit.Last()
			So(v.RawBool(), ShouldBeFalse)
		})
	})
}
