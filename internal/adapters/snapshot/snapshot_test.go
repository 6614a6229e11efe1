package snapshot_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/okian/cockpit/internal/adapters/snapshot"
	"github.com/okian/cockpit/internal/domain/model"
	"github.com/okian/cockpit/pkg/clock"
	"github.com/okian/cockpit/pkg/logger"
)

func TestMemory(t *testing.T) {
	Convey("Given an in-memory region", t, func() {
		ctx := context.Background()
		m := snapshot.NewMemory(nil)

		Convey("It is not readable before Open", func() {
			So(m.DataAvailable(), ShouldBeFalse)
			_, err := m.ReadSnapshot()
			So(errors.Is(err, snapshot.ErrNotOpen), ShouldBeTrue)
		})

		Convey("Once open it reports data only after Set", func() {
			So(m.Open(ctx), ShouldBeNil)
			So(m.DataAvailable(), ShouldBeFalse)

			src := []byte{1, 2, 3}
			m.Set(src)
			src[0] = 9
			So(m.DataAvailable(), ShouldBeTrue)

			got, err := m.ReadSnapshot()
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []byte{1, 2, 3})

			got[1] = 9
			again, _ := m.ReadSnapshot()
			So(again, ShouldResemble, []byte{1, 2, 3})

			m.Set(nil)
			So(m.DataAvailable(), ShouldBeFalse)
		})

		Convey("Close is final", func() {
			So(m.Open(ctx), ShouldBeNil)
			So(m.Close(), ShouldBeNil)
			So(m.DataAvailable(), ShouldBeFalse)
			_, err := m.ReadSnapshot()
			So(errors.Is(err, snapshot.ErrClosed), ShouldBeTrue)
			So(errors.Is(m.Open(ctx), snapshot.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestRecordingRoundTrip(t *testing.T) {
	Convey("Given a recording with frames for both regions", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "flight.rec")
		session := uuid.New()
		clk := clock.Fake(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

		rec, err := snapshot.NewRecorder(path, snapshot.WithSession(session), snapshot.WithRecorderClock(clk))
		So(err, ShouldBeNil)
		So(rec.Session(), ShouldEqual, session)
		for i := uint64(1); i <= 3; i++ {
			So(rec.Write(ctx, model.Frame{Region: "primary", Seq: i, At: clk.Now(), Data: []byte{byte(i)}}), ShouldBeNil)
		}
		So(rec.Write(ctx, model.Frame{Region: "secondary", Seq: 1, At: clk.Now(), Data: []byte{0xAA}}), ShouldBeNil)
		So(rec.Frames(), ShouldEqual, 4)
		So(rec.Close(), ShouldBeNil)
		So(rec.Close(), ShouldBeNil)
		So(errors.Is(rec.Write(ctx, model.Frame{}), snapshot.ErrClosed), ShouldBeTrue)

		Convey("ReadRecording returns the header and every frame in order", func() {
			hdr, frames, err := snapshot.ReadRecording(path)
			So(err, ShouldBeNil)
			So(hdr.Format, ShouldEqual, snapshot.RecordingFormat)
			So(hdr.Session, ShouldEqual, session)
			So(hdr.Created.Equal(clk.Now()), ShouldBeTrue)
			So(frames, ShouldHaveLength, 4)
			So(frames[2].Seq, ShouldEqual, 3)
			So(frames[3].Region, ShouldEqual, "secondary")
			So(frames[3].Session, ShouldEqual, session)
			So(frames[0].At.Equal(clk.Now()), ShouldBeTrue)
		})

		Convey("A replay yields each region's frames once", func() {
			replay := snapshot.NewReplay(path)
			primary, secondary := replay.Region("primary"), replay.Region("secondary")
			So(primary.DataAvailable(), ShouldBeFalse)
			So(primary.Open(ctx), ShouldBeNil)
			So(secondary.Open(ctx), ShouldBeNil)
			So(replay.Header().Session, ShouldEqual, session)

			var got []byte
			for primary.DataAvailable() {
				buf, err := primary.ReadSnapshot()
				So(err, ShouldBeNil)
				got = append(got, buf...)
			}
			So(got, ShouldResemble, []byte{1, 2, 3})
			_, err := primary.ReadSnapshot()
			So(errors.Is(err, io.EOF), ShouldBeTrue)

			buf, err := secondary.ReadSnapshot()
			So(err, ShouldBeNil)
			So(buf, ShouldResemble, []byte{0xAA})
			So(secondary.DataAvailable(), ShouldBeFalse)

			So(primary.Close(), ShouldBeNil)
			So(secondary.Close(), ShouldBeNil)
			_, err = primary.ReadSnapshot()
			So(errors.Is(err, snapshot.ErrClosed), ShouldBeTrue)
		})

		Convey("A looping replay starts over", func() {
			region := snapshot.NewReplay(path, snapshot.WithLoop(true)).Region("primary")
			So(region.Open(ctx), ShouldBeNil)
			var got []byte
			for i := 0; i < 5; i++ {
				So(region.DataAvailable(), ShouldBeTrue)
				buf, err := region.ReadSnapshot()
				So(err, ShouldBeNil)
				got = append(got, buf...)
			}
			So(got, ShouldResemble, []byte{1, 2, 3, 1, 2})
		})

		Convey("A region with no frames never has data", func() {
			region := snapshot.NewReplay(path, snapshot.WithLoop(true)).Region("tertiary")
			So(region.Open(ctx), ShouldBeNil)
			So(region.DataAvailable(), ShouldBeFalse)
		})
	})

	Convey("A missing recording fails to open", t, func() {
		region := snapshot.NewReplay(filepath.Join(t.TempDir(), "none.rec")).Region("primary")
		So(region.Open(context.Background()), ShouldNotBeNil)
	})

	Convey("A foreign file format is unsupported", t, func() {
		var buf bytes.Buffer
		So(msgpack.NewEncoder(&buf).Encode(&snapshot.Header{Format: "other", Version: 1}), ShouldBeNil)
		_, _, err := snapshot.DecodeRecording(&buf)
		So(errors.Is(err, snapshot.ErrUnsupported), ShouldBeTrue)
	})
}

type fakeQueue struct {
	mu     sync.Mutex
	frames []model.Frame
	limit  int
}

func (q *fakeQueue) Enqueue(_ context.Context, f model.Frame) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.frames) >= q.limit {
		return errors.New("full")
	}
	q.frames = append(q.frames, f)
	return nil
}

func TestTap(t *testing.T) {
	Convey("Given a tapped memory region", t, func() {
		ctx := context.Background()
		clk := clock.Fake(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
		session := uuid.New()
		mem := snapshot.NewMemory([]byte{7, 7})
		q := &fakeQueue{limit: 2}
		tap := snapshot.NewTap(mem, "primary", session, q,
			snapshot.WithTapClock(clk), snapshot.WithTapLogger(logger.NewNop()))
		So(tap.Open(ctx), ShouldBeNil)

		Convey("Every read is enqueued as a numbered frame", func() {
			buf, err := tap.ReadSnapshot()
			So(err, ShouldBeNil)
			So(buf, ShouldResemble, []byte{7, 7})
			clk.Advance(time.Second)
			_, _ = tap.ReadSnapshot()

			So(q.frames, ShouldHaveLength, 2)
			So(q.frames[0].Seq, ShouldEqual, 1)
			So(q.frames[1].Seq, ShouldEqual, 2)
			So(q.frames[1].Region, ShouldEqual, "primary")
			So(q.frames[1].Session, ShouldEqual, session)
			So(q.frames[1].At.Equal(clk.Now()), ShouldBeTrue)
		})

		Convey("A refusing queue drops frames but reads still succeed", func() {
			for i := 0; i < 4; i++ {
				_, err := tap.ReadSnapshot()
				So(err, ShouldBeNil)
			}
			So(q.frames, ShouldHaveLength, 2)
			So(tap.Dropped(), ShouldEqual, 2)
		})

		Convey("Read errors pass through without a frame", func() {
			So(tap.Close(), ShouldBeNil)
			_, err := tap.ReadSnapshot()
			So(errors.Is(err, snapshot.ErrClosed), ShouldBeTrue)
			So(q.frames, ShouldBeEmpty)
		})
	})
}
