package binding_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/cockpit/internal/domain/binding"
	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/value"
	"github.com/okian/cockpit/pkg/logger"
)

func init() {
	_ = logger.Init()
}

type device struct {
	name string
	reg  *capability.Registry
}

func (d *device) Name() string                         { return d.name }
func (d *device) Capabilities() *capability.Registry { return d.reg }

// sink is a device with one action that records every value it receives.
type sink struct {
	device
	got []value.Value
	err error
}

func newSink(name string) *sink {
	s := &sink{device: device{name: name, reg: capability.NewRegistry()}}
	s.reg.MustAddAction(name, "set.value", func(_ context.Context, v value.Value) error {
		s.got = append(s.got, v)
		return s.err
	})
	return s
}

func newSource(name string, triggers ...string) *device {
	d := &device{name: name, reg: capability.NewRegistry()}
	for _, t := range triggers {
		d.reg.MustAddTrigger(name, t)
	}
	return d
}

func TestAddBinding(t *testing.T) {
	Convey("Given a graph with one source and one sink", t, func() {
		ctx := context.Background()
		g := binding.NewGraph()
		src := newSource("HSI", "current heading")
		dst := newSink("Needle")
		So(g.Register(ctx, src), ShouldBeNil)
		So(g.Register(ctx, dst), ShouldBeNil)

		Convey("When binding registered slots", func() {
			id, err := g.AddBinding(ctx, capability.Slot("HSI", "current heading"), capability.Slot("Needle", "set.value"))

			Convey("Then a binding id is returned", func() {
				So(err, ShouldBeNil)
				So(id, ShouldNotEqual, uuid.Nil)
				So(g.Len(), ShouldEqual, 1)
				views := g.Bindings()
				So(views[0].ID, ShouldEqual, id.String())
				So(views[0].Source.Key(), ShouldEqual, "HSI.current heading")
			})

			Convey("Then the same pair cannot be bound twice", func() {
				_, err := g.AddBinding(ctx, capability.Slot("HSI", "current heading"), capability.Slot("Needle", "set.value"))
				So(errors.Is(err, binding.ErrDuplicateBinding), ShouldBeTrue)
				So(g.Len(), ShouldEqual, 1)
			})

			Convey("Then removing it frees the pair", func() {
				So(g.Remove(ctx, id), ShouldBeNil)
				So(g.Len(), ShouldEqual, 0)
				_, err := g.AddBinding(ctx, capability.Slot("HSI", "current heading"), capability.Slot("Needle", "set.value"))
				So(err, ShouldBeNil)
			})
		})

		Convey("When the source is unknown", func() {
			_, err := g.AddBinding(ctx, capability.Slot("HSI", "nope"), capability.Slot("Needle", "set.value"))

			Convey("Then UnknownSource is returned", func() {
				So(errors.Is(err, binding.ErrUnknownSource), ShouldBeTrue)
				So(errors.Is(err, capability.ErrUnknownSlot), ShouldBeTrue)
				So(g.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the target is unknown", func() {
			_, err := g.AddBinding(ctx, capability.Slot("HSI", "current heading"), capability.Slot("Needle", "nope"))

			Convey("Then UnknownTarget is returned", func() {
				So(errors.Is(err, binding.ErrUnknownTarget), ShouldBeTrue)
			})
		})

		Convey("When removing an unknown id", func() {
			err := g.Remove(ctx, uuid.New())
			So(errors.Is(err, binding.ErrBindingNotFound), ShouldBeTrue)
		})
	})
}

func TestFire(t *testing.T) {
	Convey("Given T bound to A and an unrelated action B", t, func() {
		ctx := context.Background()
		g := binding.NewGraph()
		src := newSource("Switch", "T", "other")
		a := newSink("A")
		b := newSink("B")
		for _, c := range []capability.Component{src, a, b} {
			So(g.Register(ctx, c), ShouldBeNil)
		}
		_, err := g.AddBinding(ctx, capability.Slot("Switch", "T"), capability.Slot("A", "set.value"))
		So(err, ShouldBeNil)

		Convey("When T fires with V", func() {
			err := g.Fire(ctx, capability.Slot("Switch", "T"), value.Number(42, value.UnitFeet))

			Convey("Then A observes V exactly once and B nothing", func() {
				So(err, ShouldBeNil)
				So(len(a.got), ShouldEqual, 1)
				So(a.got[0].Equal(value.Number(42, value.UnitFeet)), ShouldBeTrue)
				So(len(b.got), ShouldEqual, 0)
			})

			Convey("Then the trigger remembers V", func() {
				trig, ok := g.Trigger(capability.Slot("Switch", "T"))
				So(ok, ShouldBeTrue)
				last, fired := trig.Last()
				So(fired, ShouldBeTrue)
				So(last.RawNumber(), ShouldEqual, 42)
			})
		})

		Convey("When the component fires its own trigger", func() {
			trig, _ := src.reg.TriggerAt(capability.Slot("Switch", "T"))
			So(trig.Fire(ctx, value.Bool(true)), ShouldBeNil)

			Convey("Then the graph dispatches it", func() {
				So(len(a.got), ShouldEqual, 1)
			})
		})

		Convey("When an unbound trigger fires", func() {
			So(g.Fire(ctx, capability.Slot("Switch", "other"), value.Bool(true)), ShouldBeNil)
			So(len(a.got), ShouldEqual, 0)
		})

		Convey("When an unregistered slot is fired", func() {
			err := g.Fire(ctx, capability.Slot("Nowhere", "T"), value.Bool(true))
			So(errors.Is(err, binding.ErrUnknownSource), ShouldBeTrue)
		})

		Convey("When the target is unregistered after wiring", func() {
			g.Unregister(ctx, a)
			err := g.Fire(ctx, capability.Slot("Switch", "T"), value.Bool(true))

			Convey("Then dispatch reports the missing target without panicking", func() {
				So(errors.Is(err, binding.ErrUnknownTarget), ShouldBeTrue)
				So(len(a.got), ShouldEqual, 0)
			})

			Convey("And re-registering restores the wire", func() {
				So(g.Register(ctx, a), ShouldBeNil)
				So(g.Fire(ctx, capability.Slot("Switch", "T"), value.Bool(true)), ShouldBeNil)
				So(len(a.got), ShouldEqual, 1)
			})
		})
	})
}

func TestFireOrderingFilterTransform(t *testing.T) {
	Convey("Given one source bound to three actions", t, func() {
		ctx := context.Background()
		g := binding.NewGraph()
		src := newSource("Gear", "handle")
		order := []string{}
		dev := &device{name: "Panel", reg: capability.NewRegistry()}
		for _, n := range []string{"first", "second", "third"} {
			name := n
			dev.reg.MustAddAction("Panel", name, func(_ context.Context, v value.Value) error {
				order = append(order, fmt.Sprintf("%s:%g", name, v.RawNumber()))
				return nil
			})
		}
		So(g.Register(ctx, src), ShouldBeNil)
		So(g.Register(ctx, dev), ShouldBeNil)

		handle := capability.Slot("Gear", "handle")
		_, err := g.AddBinding(ctx, handle, capability.Slot("Panel", "first"))
		So(err, ShouldBeNil)
		_, err = g.AddBinding(ctx, handle, capability.Slot("Panel", "second"),
			binding.WithFilter(func(v value.Value) bool { return v.RawNumber() > 10 }))
		So(err, ShouldBeNil)
		_, err = g.AddBinding(ctx, handle, capability.Slot("Panel", "third"),
			binding.WithTransform(func(v value.Value) (value.Value, error) {
				return value.Number(v.RawNumber()*2, value.UnitNumeric), nil
			}))
		So(err, ShouldBeNil)

		Convey("When the filter rejects the value", func() {
			So(g.Fire(ctx, handle, value.Number(3, value.UnitNumeric)), ShouldBeNil)

			Convey("Then the filtered binding is skipped and order is preserved", func() {
				So(order, ShouldResemble, []string{"first:3", "third:6"})
			})
		})

		Convey("When the filter accepts the value", func() {
			So(g.Fire(ctx, handle, value.Number(20, value.UnitNumeric)), ShouldBeNil)

			Convey("Then all three run in insertion order", func() {
				So(order, ShouldResemble, []string{"first:20", "second:20", "third:40"})
			})
		})
	})

	Convey("Given a failing action between two healthy ones", t, func() {
		ctx := context.Background()
		g := binding.NewGraph()
		src := newSource("S", "t")
		bad := newSink("Bad")
		bad.err = errors.New("boom")
		good := newSink("Good")
		for _, c := range []capability.Component{src, bad, good} {
			So(g.Register(ctx, c), ShouldBeNil)
		}
		_, _ = g.AddBinding(ctx, capability.Slot("S", "t"), capability.Slot("Bad", "set.value"))
		_, _ = g.AddBinding(ctx, capability.Slot("S", "t"), capability.Slot("Good", "set.value"))

		Convey("Then the failure is returned and the other action still runs", func() {
			err := g.Fire(ctx, capability.Slot("S", "t"), value.Bool(true))
			So(err, ShouldNotBeNil)
			So(len(good.got), ShouldEqual, 1)
		})
	})
}

func TestRegisterConflicts(t *testing.T) {
	Convey("Given two components exposing the same trigger key", t, func() {
		ctx := context.Background()
		g := binding.NewGraph(binding.WithLogger(logger.NewNop()))
		one := newSource("Dup", "t")
		two := newSource("Dup", "t")
		So(g.Register(ctx, one), ShouldBeNil)

		Convey("Then the second registration reports the conflict and keeps the first", func() {
			err := g.Register(ctx, two)
			So(errors.Is(err, capability.ErrDuplicateSlot), ShouldBeTrue)
			first, _ := one.reg.TriggerAt(capability.Slot("Dup", "t"))
			held, ok := g.Trigger(capability.Slot("Dup", "t"))
			So(ok, ShouldBeTrue)
			So(held, ShouldEqual, first)
		})

		Convey("Then observer callbacks register and unregister", func() {
			s := newSink("Obs")
			g.OnAdded(ctx, s)
			_, ok := g.Action(capability.Slot("Obs", "set.value"))
			So(ok, ShouldBeTrue)
			g.OnRemoved(ctx, s)
			_, ok = g.Action(capability.Slot("Obs", "set.value"))
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDottedSlotNames(t *testing.T) {
	Convey("Given two devices whose slots render to the same dotted key", t, func() {
		ctx := context.Background()
		g := binding.NewGraph(binding.WithLogger(logger.NewNop()))
		left := newSource("Panel.Left", "switch")
		panel := newSource("Panel", "Left.switch")
		So(capability.Slot("Panel.Left", "switch").Key(), ShouldEqual, capability.Slot("Panel", "Left.switch").Key())
		So(g.Register(ctx, left), ShouldBeNil)

		Convey("Then the second registers without a duplicate slot error", func() {
			So(g.Register(ctx, panel), ShouldBeNil)

			first, ok := g.Trigger(capability.Slot("Panel.Left", "switch"))
			So(ok, ShouldBeTrue)
			second, ok := g.Trigger(capability.Slot("Panel", "Left.switch"))
			So(ok, ShouldBeTrue)
			So(first, ShouldNotEqual, second)
		})

		Convey("Then a binding on one slot ignores the other", func() {
			So(g.Register(ctx, panel), ShouldBeNil)
			dst := newSink("Lamp")
			So(g.Register(ctx, dst), ShouldBeNil)
			_, err := g.AddBinding(ctx, capability.Slot("Panel", "Left.switch"), capability.Slot("Lamp", "set.value"))
			So(err, ShouldBeNil)

			So(g.Fire(ctx, capability.Slot("Panel.Left", "switch"), value.Bool(true)), ShouldBeNil)
			So(len(dst.got), ShouldEqual, 0)

			So(g.Fire(ctx, capability.Slot("Panel", "Left.switch"), value.Bool(true)), ShouldBeNil)
			So(len(dst.got), ShouldEqual, 1)
		})
	})
}
