// Package worker drains recorded frames from the queue into a sink.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/cockpit/internal/domain/model"
	"github.com/okian/cockpit/pkg/logger"
	"github.com/okian/cockpit/pkg/metrics"
)

// Frame is what workers read off the queue.
type Frame = model.Frame

// Sink persists frames, e.g. the snapshot recorder.
type Sink interface {
	Write(ctx context.Context, f Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, f Frame) error

// Write calls fn.
func (fn SinkFunc) Write(ctx context.Context, f Frame) error { return fn(ctx, f) }

// Queue defines how workers receive frames.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Frame
}

// Worker processes frames until its queue is closed and drained.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown waits for Run to drain the queue, then forces it to stop
	// once ctx expires.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker with a single goroutine, so frames reach
// the sink in queue order.
type InMemoryWorker struct {
	queue Queue
	sink  Sink
	name  string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		sink:     sink,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop. The context handed to the queue is cancelled
// when Run returns, so a stopped worker releases its dequeue goroutine.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if err := w.process(ctx, f); err != nil {
				w.logger.Error(ctx, "error writing frame", logger.Error(err))
			}
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Shutdown waits for the worker to finish. Close the queue first so Run can
// drain it; if ctx expires before that, the worker is stopped and the
// remaining frames are dropped.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.shutdownOnce.Do(func() { close(w.shutdown) })
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, f Frame) error { //nolint:gocritic // hugeParam: Frame is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.sink.Write(ctx, f); err != nil {
		metrics.RecordRecorderError()
		metrics.RecordErrorByComponent("worker", "sink_error")
		return fmt.Errorf("write %s frame %d: %w", f.Region, f.Seq, err)
	}
	metrics.RecordFrameWritten()
	return nil
}
