package snapgen_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/cockpit/internal/adapters/snapshot"
	"github.com/okian/cockpit/internal/domain/telemetry"
	"github.com/okian/cockpit/internal/snapgen"
	"github.com/okian/cockpit/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func testConfig(t *testing.T) snapgen.Config {
	return snapgen.Config{
		Output:   filepath.Join(t.TempDir(), "out", "flight.rec"),
		Frames:   120,
		Interval: 100 * time.Millisecond,
		Seed:     7,
		Contacts: 3,
		Start:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestConfigValidate(t *testing.T) {
	Convey("Given generator configs", t, func() {
		cases := []struct {
			name   string
			mutate func(*snapgen.Config)
		}{
			{"missing output", func(c *snapgen.Config) { c.Output = "" }},
			{"no frames", func(c *snapgen.Config) { c.Frames = 0 }},
			{"zero interval", func(c *snapgen.Config) { c.Interval = 0 }},
			{"too many contacts", func(c *snapgen.Config) { c.Contacts = telemetry.MaxRwrObjects + 1 }},
		}
		for _, tc := range cases {
			cfg := testConfig(t)
			tc.mutate(&cfg)
			Convey("Then "+tc.name+" is rejected", func() {
				So(errors.Is(cfg.Validate(), snapgen.ErrInvalidConfig), ShouldBeTrue)
			})
		}

		Convey("Then the test config is accepted", func() {
			cfg := testConfig(t)
			So(cfg.Validate(), ShouldBeNil)
		})
	})
}

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		cfg := testConfig(t)
		a := snapgen.NewGenerator(&cfg)
		b := snapgen.NewGenerator(&cfg)

		Convey("Then they produce identical records", func() {
			for _, frame := range []int{0, 17, 99} {
				pa, err := a.Primary(frame).MarshalBinary()
				So(err, ShouldBeNil)
				pb, err := b.Primary(frame).MarshalBinary()
				So(err, ShouldBeNil)
				So(pa, ShouldResemble, pb)
			}
		})

		Convey("Then records decode at the supported layout versions", func() {
			buf, err := a.Primary(3).MarshalBinary()
			So(err, ShouldBeNil)
			fd, err := telemetry.DecodeFlightData(buf)
			So(err, ShouldBeNil)
			So(fd.RwrObjectCount, ShouldEqual, int32(3))
			So(fd.LightBits.Has(a.Lamp(3)), ShouldBeTrue)

			buf, err = a.Secondary(3).MarshalBinary()
			So(err, ShouldBeNil)
			fd2, err := telemetry.DecodeFlightData2(buf)
			So(err, ShouldBeNil)
			So(fd2.BullseyeX, ShouldBeGreaterThan, float32(0))
		})

		Convey("Then the ownship turns and the lamps cycle", func() {
			So(a.Heading(0), ShouldEqual, 0.0)
			So(a.Heading(100), ShouldAlmostEqual, 15, 0.0001)
			So(a.Lamp(0), ShouldNotEqual, a.Lamp(50))
		})

		Convey("Then the outer marker blinks on and off", func() {
			So(a.Secondary(0).BlinkBits.Has(telemetry.BlinkOuterMarker), ShouldBeTrue)
			So(a.Secondary(25).BlinkBits.Has(telemetry.BlinkOuterMarker), ShouldBeFalse)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a generation run", t, func() {
		cfg := testConfig(t)
		stats, err := snapgen.Run(context.Background(), cfg)
		So(err, ShouldBeNil)

		Convey("Then every frame of both regions is recorded in order", func() {
			So(stats.PrimaryFrames, ShouldEqual, cfg.Frames)
			So(stats.SecondaryFrames, ShouldEqual, cfg.Frames)

			hdr, frames, err := snapshot.ReadRecording(cfg.Output)
			So(err, ShouldBeNil)
			So(hdr.Session.String(), ShouldEqual, stats.Session)
			So(hdr.Created.Equal(cfg.Start), ShouldBeTrue)
			So(frames, ShouldHaveLength, 2*cfg.Frames)
			So(frames[0].Region, ShouldEqual, telemetry.RegionPrimary)
			So(frames[1].Region, ShouldEqual, telemetry.RegionSecondary)
			So(frames[2].Seq, ShouldEqual, uint64(2))
			So(frames[2].At.Sub(frames[0].At), ShouldEqual, cfg.Interval)
		})

		Convey("Then the recording replays through the decoder", func() {
			replay := snapshot.NewReplay(cfg.Output)
			primary := replay.Region(telemetry.RegionPrimary)
			secondary := replay.Region(telemetry.RegionSecondary)
			dec := telemetry.NewDecoder(primary, secondary, nil, telemetry.WithLogger(logger.NewNop()))
			So(dec.Open(context.Background()), ShouldBeNil)
			defer func() { _ = dec.Close() }()

			res := dec.Poll(context.Background())
			So(res.Primary, ShouldEqual, telemetry.StatusUpdated)
			So(res.Secondary, ShouldEqual, telemetry.StatusUpdated)
			So(dec.Contacts(), ShouldHaveLength, cfg.Contacts)
		})
	})

	Convey("Given a cancelled context", t, func() {
		cfg := testConfig(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then the run stops with the context error", func() {
			_, err := snapgen.Run(ctx, cfg)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
