package snapshot

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okian/cockpit/internal/domain/model"
	"github.com/okian/cockpit/pkg/clock"
	"github.com/okian/cockpit/pkg/logger"
)

// Source is the region contract shared by every snapshot source.
type Source interface {
	Open(ctx context.Context) error
	DataAvailable() bool
	ReadSnapshot() ([]byte, error)
	Close() error
}

// Enqueuer accepts frames without blocking.
type Enqueuer interface {
	Enqueue(ctx context.Context, f model.Frame) error
}

// Tap wraps a Source and hands a copy of every snapshot read to an
// Enqueuer. A full or closed queue drops the frame; the read still succeeds.
type Tap struct {
	Source
	region  string
	session uuid.UUID
	queue   Enqueuer
	clock   clock.Clock
	log     logger.Logger
	seq     atomic.Uint64
	dropped atomic.Uint64
}

// TapOption configures a Tap.
type TapOption func(*Tap)

// WithTapClock sets the clock stamping frames.
func WithTapClock(c clock.Clock) TapOption {
	return func(t *Tap) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithTapLogger sets the logger.
func WithTapLogger(l logger.Logger) TapOption {
	return func(t *Tap) {
		if l != nil {
			t.log = l
		}
	}
}

// NewTap wraps src, labelling frames with region and session.
func NewTap(src Source, region string, session uuid.UUID, queue Enqueuer, opts ...TapOption) *Tap {
	t := &Tap{
		Source:  src,
		region:  region,
		session: session,
		queue:   queue,
		clock:   clock.Real(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.Get().Named("tap")
	}
	return t
}

// ReadSnapshot reads from the wrapped source and enqueues a frame.
func (t *Tap) ReadSnapshot() ([]byte, error) {
	buf, err := t.Source.ReadSnapshot()
	if err != nil {
		return nil, err
	}
	f := model.Frame{
		Session: t.session,
		Region:  t.region,
		Seq:     t.seq.Add(1),
		At:      t.clock.Now(),
		Data:    append([]byte(nil), buf...),
	}
	if err := t.queue.Enqueue(context.Background(), f); err != nil {
		if t.dropped.Add(1) == 1 {
			t.log.Warn(context.Background(), "recording is dropping frames",
				logger.String("region", t.region), logger.Error(err))
		}
	}
	return buf, nil
}

// Dropped returns the number of frames the queue refused.
func (t *Tap) Dropped() uint64 { return t.dropped.Load() }
