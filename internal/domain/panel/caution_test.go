package panel_test

import (
	"context"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/controls"
	"github.com/okian/cockpit/internal/domain/panel"
	"github.com/okian/cockpit/internal/domain/profile"
	"github.com/okian/cockpit/internal/domain/telemetry"
	"github.com/okian/cockpit/internal/domain/value"
	"github.com/okian/cockpit/pkg/logger"
)

func init() {
	_ = logger.Init()
}

type press struct {
	cmd     telemetry.Command
	pressed bool
}

type commandLog struct {
	mu      sync.Mutex
	presses []press
}

func (c *commandLog) handle(_ context.Context, cmd telemetry.Command, pressed bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presses = append(c.presses, press{cmd, pressed})
	return nil
}

func cautionFields() []string {
	var out []string
	for _, e := range telemetry.Catalog() {
		if e.Category == "Caution" && e.Unit == value.UnitBoolean {
			out = append(out, e.Field)
		}
	}
	return out
}

func TestCautionPanel(t *testing.T) {
	Convey("Given a profile with the telemetry interface and the caution panel", t, func() {
		ctx := context.Background()
		cmds := &commandLog{}
		iface, err := telemetry.NewInterface(
			telemetry.WithCommands(panel.Commands()...),
			telemetry.WithCommandHandler(cmds.handle),
		)
		So(err, ShouldBeNil)

		p := profile.New("test")
		caution := panel.NewCaution(telemetry.DefaultInterfaceName)
		So(p.AddComponent(ctx, caution), ShouldBeNil)
		So(p.AddInterface(ctx, iface), ShouldBeNil)

		Convey("Then every caution light of the interface is bound", func() {
			fields := cautionFields()
			So(len(fields), ShouldBeGreaterThan, 20)

			bound := make(map[string]bool)
			for _, b := range p.Graph().Bindings() {
				bound[b.Source.Key()] = true
			}
			for _, f := range fields {
				So(bound["Caution."+f], ShouldBeTrue)
			}
			So(p.Graph().Len(), ShouldEqual, len(fields)+4)
		})

		Convey("Then resolving again adds nothing", func() {
			before := p.Graph().Len()
			res := p.ResolveDefaults(ctx)
			So(res[panel.CautionName].Materialized, ShouldEqual, 0)
			So(res[panel.CautionName].Failed, ShouldEqual, 0)
			So(p.Graph().Len(), ShouldEqual, before)
		})

		Convey("When the interface publishes a caution", func() {
			So(iface.Publish(ctx, "Caution", "probe heat indicator", value.Bool(true)), ShouldBeNil)

			Convey("Then the annunciator lights", func() {
				child, ok := caution.Child(caution.ChildName("Annunciator PROBE HEAT"))
				So(ok, ShouldBeTrue)
				ind, ok := child.(*controls.Indicator)
				So(ok, ShouldBeTrue)
				So(ind.Lit(), ShouldBeTrue)

				Convey("And Reset turns it off", func() {
					p.Reset(ctx)
					So(ind.Lit(), ShouldBeFalse)
				})
			})
		})

		Convey("When the master caution button is pushed and released", func() {
			child, ok := caution.Child(caution.ChildName("MASTER CAUTION"))
			So(ok, ShouldBeTrue)
			btn := child.(*controls.PushButton)
			So(btn.Push(ctx), ShouldBeNil)
			So(btn.Release(ctx), ShouldBeNil)

			Convey("Then the command is pressed then let go", func() {
				So(cmds.presses, ShouldResemble, []press{
					{panel.MasterCaution, true},
					{panel.MasterCaution, false},
				})
			})
		})

		Convey("When the simulator reports the element pushed", func() {
			So(iface.Press(ctx, panel.MasterCaution, true), ShouldBeNil)

			Convey("Then the button follows it", func() {
				child, _ := caution.Child(caution.ChildName("MASTER CAUTION"))
				So(child.(*controls.PushButton).Pushed(), ShouldBeTrue)
			})
		})

		Convey("Then unbound slots stay unknown to the graph", func() {
			_, ok := p.Graph().Trigger(capability.Slot("Caution", "not a light"))
			So(ok, ShouldBeFalse)
		})
	})
}
