package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/cockpit/internal/adapters/repository"
	"github.com/okian/cockpit/internal/adapters/snapshot"
	service "github.com/okian/cockpit/internal/app"
	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/composite"
	"github.com/okian/cockpit/internal/domain/controls"
	"github.com/okian/cockpit/internal/domain/panel"
	"github.com/okian/cockpit/internal/domain/telemetry"
	"github.com/okian/cockpit/internal/domain/value"
	"github.com/okian/cockpit/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func primaryBytes(lights telemetry.LightBits) []byte {
	fd := &telemetry.FlightData{
		CurrentHeading: 90,
		LightBits:      lights,
		VersionNum:     telemetry.FlightDataVersion,
	}
	b, err := fd.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return b
}

func secondaryBytes() []byte {
	fd2 := &telemetry.FlightData2{VersionNum: telemetry.FlightData2Version}
	b, err := fd2.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return b
}

func cautionLight(svc *service.Service, label string) *controls.Indicator {
	c, ok := svc.Profile().Components().Get(panel.CautionName)
	So(ok, ShouldBeTrue)
	child, ok := c.(*composite.Composite).Child(c.(*composite.Composite).ChildName("Annunciator " + label))
	So(ok, ShouldBeTrue)
	return child.(*controls.Indicator)
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithLogger(logger.NewNop()))

		Convey("Then reads report that it is not started", func() {
			_, err := svc.PollOnce(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Get(ctx, "Caution", "hook indicator")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(errors.Is(svc.Fire(ctx, capability.Slot("Caution", "hook indicator"), value.Bool(true)), service.ErrNotStarted), ShouldBeTrue)
			So(svc.List(ctx, ""), ShouldBeEmpty)
			So(svc.Bindings(), ShouldBeEmpty)
			So(svc.Contacts(), ShouldBeEmpty)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("Then Stop is a no-op", func() {
			So(func() { svc.Stop() }, ShouldNotPanic)
		})
	})
}

func TestService_Poll(t *testing.T) {
	Convey("Given a started service over in-memory regions", t, func() {
		ctx := context.Background()
		primary := snapshot.NewMemory(primaryBytes(telemetry.FltControlSys))
		secondary := snapshot.NewMemory(secondaryBytes())
		svc := service.New(
			service.WithLogger(logger.NewNop()),
			service.WithPollInterval(time.Hour),
			service.WithSourceFactory(service.StaticSources(primary, secondary)),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the caution panel is bound to the interface", func() {
			So(len(svc.Bindings()), ShouldBeGreaterThan, 27)
			So(svc.GetStats()["started"], ShouldEqual, true)
		})

		Convey("When one poll runs", func() {
			res, err := svc.PollOnce(ctx)
			So(err, ShouldBeNil)

			Convey("Then both regions decode and values are stored", func() {
				So(res.Primary, ShouldEqual, telemetry.StatusUpdated)
				So(res.Secondary, ShouldEqual, telemetry.StatusUpdated)
				So(res.Published, ShouldEqual, len(telemetry.Catalog()))

				e, err := svc.Get(ctx, "Caution", "flight control system indicator")
				So(err, ShouldBeNil)
				So(e.Value.RawBool(), ShouldBeTrue)
				So(len(svc.List(ctx, "")), ShouldEqual, len(telemetry.Catalog()))
			})

			Convey("Then the panel annunciator follows the light bit", func() {
				So(cautionLight(svc, "FLCS FAULT").Lit(), ShouldBeTrue)
				So(cautionLight(svc, "HOOK").Lit(), ShouldBeFalse)
			})

			Convey("Then the stats describe the poll", func() {
				stats := svc.GetStats()
				So(stats["polls"], ShouldEqual, uint64(1))
				So(stats["lastPrimary"], ShouldEqual, telemetry.StatusUpdated.String())
				So(stats["values"], ShouldEqual, len(telemetry.Catalog()))
				So(stats["primaryReady"], ShouldEqual, true)
			})

			Convey("And the light goes out on the next poll", func() {
				primary.Set(primaryBytes(0))
				_, _ = svc.PollOnce(ctx)
				So(cautionLight(svc, "FLCS FAULT").Lit(), ShouldBeFalse)
			})
		})

		Convey("When a trigger is fired by hand", func() {
			So(svc.Fire(ctx, capability.Slot("Caution", "hook indicator"), value.Bool(true)), ShouldBeNil)

			Convey("Then the bound annunciator lights", func() {
				So(cautionLight(svc, "HOOK").Lit(), ShouldBeTrue)
			})
		})

		Convey("When reading an unknown value", func() {
			_, err := svc.Get(ctx, "Caution", "hook indicator")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

// gatedSource holds its first snapshot read until release is closed.
type gatedSource struct {
	*snapshot.Memory
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedSource) ReadSnapshot() ([]byte, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.Memory.ReadSnapshot()
}

func TestService_FireDuringPoll(t *testing.T) {
	Convey("Given a poll blocked while reading the primary region", t, func() {
		ctx := context.Background()
		primary := &gatedSource{
			Memory:  snapshot.NewMemory(primaryBytes(0)),
			entered: make(chan struct{}),
			release: make(chan struct{}),
		}
		svc := service.New(
			service.WithLogger(logger.NewNop()),
			service.WithPollInterval(time.Hour),
			service.WithSourceFactory(service.StaticSources(primary, snapshot.NewMemory(secondaryBytes()))),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		polled := make(chan struct{})
		go func() {
			defer close(polled)
			_, _ = svc.PollOnce(ctx)
		}()
		<-primary.entered

		Convey("When a trigger is fired", func() {
			fired := make(chan error, 1)
			go func() { fired <- svc.Fire(ctx, capability.Slot("Caution", "hook indicator"), value.Bool(true)) }()

			Convey("Then dispatch waits for the poll to finish", func() {
				select {
				case <-fired:
					So("fire ran during the poll", ShouldBeEmpty)
				case <-time.After(50 * time.Millisecond):
				}
				close(primary.release)
				<-polled
				select {
				case err := <-fired:
					So(err, ShouldBeNil)
				case <-time.After(time.Second):
					So("fire never ran", ShouldBeEmpty)
				}
				So(cautionLight(svc, "HOOK").Lit(), ShouldBeTrue)
			})
		})
	})
}

func TestService_Recording(t *testing.T) {
	Convey("Given a recording service", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "session.rec")
		svc := service.New(
			service.WithLogger(logger.NewNop()),
			service.WithPollInterval(time.Hour),
			service.WithPanel(false),
			service.WithRecording(path, 16),
			service.WithSourceFactory(service.StaticSources(
				snapshot.NewMemory(primaryBytes(telemetry.Hook)),
				snapshot.NewMemory(secondaryBytes()),
			)),
		)
		So(svc.Start(ctx), ShouldBeNil)
		So(svc.Bindings(), ShouldBeEmpty)

		Convey("When polling twice and stopping", func() {
			_, _ = svc.PollOnce(ctx)
			_, _ = svc.PollOnce(ctx)
			So(svc.GetStats()["recordPath"], ShouldEqual, path)
			svc.Stop()

			Convey("Then the recording replays both regions in order", func() {
				hdr, frames, err := snapshot.ReadRecording(path)
				So(err, ShouldBeNil)
				So(frames, ShouldHaveLength, 4)

				var primarySeq []uint64
				for _, f := range frames {
					So(f.Session, ShouldEqual, hdr.Session)
					if f.Region == telemetry.RegionPrimary {
						primarySeq = append(primarySeq, f.Seq)
					}
				}
				So(primarySeq, ShouldResemble, []uint64{1, 2})

				replay := snapshot.NewReplay(path)
				dec := telemetry.NewDecoder(replay.Region(telemetry.RegionPrimary), replay.Region(telemetry.RegionSecondary),
					nil, telemetry.WithLogger(logger.NewNop()))
				So(dec.Open(ctx), ShouldBeNil)
				res := dec.Poll(ctx)
				So(res.Primary, ShouldEqual, telemetry.StatusUpdated)
				fd, err := dec.FlightData()
				So(err, ShouldBeNil)
				So(fd.LightBits.Has(telemetry.Hook), ShouldBeTrue)
				So(dec.Close(), ShouldBeNil)
			})
		})
	})
}

// flakySource fails to open until allowed.
type flakySource struct {
	mu    sync.Mutex
	allow bool
	mem   *snapshot.Memory
}

func (f *flakySource) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.allow {
		return errors.New("simulator not running")
	}
	return f.mem.Open(ctx)
}

func (f *flakySource) DataAvailable() bool           { return f.mem.DataAvailable() }
func (f *flakySource) ReadSnapshot() ([]byte, error) { return f.mem.ReadSnapshot() }
func (f *flakySource) Close() error                  { return f.mem.Close() }

func (f *flakySource) permit() {
	f.mu.Lock()
	f.allow = true
	f.mu.Unlock()
}

func TestService_Loop(t *testing.T) {
	Convey("Given a service whose primary region appears late", t, func() {
		ctx := context.Background()
		primary := &flakySource{mem: snapshot.NewMemory(primaryBytes(telemetry.Hook))}
		svc := service.New(
			service.WithLogger(logger.NewNop()),
			service.WithPollInterval(5*time.Millisecond),
			service.WithReopenInterval(time.Millisecond),
			service.WithSourceFactory(service.StaticSources(primary, nil)),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the loop reopens it and starts publishing", func() {
			primary.permit()
			deadline := time.Now().Add(5 * time.Second)
			for time.Now().Before(deadline) {
				if _, err := svc.Get(ctx, "Caution", "hook indicator"); err == nil {
					break
				}
				time.Sleep(5 * time.Millisecond)
			}
			e, err := svc.Get(ctx, "Caution", "hook indicator")
			So(err, ShouldBeNil)
			So(e.Value.RawBool(), ShouldBeTrue)
			So(cautionLight(svc, "HOOK").Lit(), ShouldBeTrue)
		})
	})
}
