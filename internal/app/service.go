// Package service wires the snapshot sources, the telemetry decoder, the
// binding profile and the value store into one polling service that also
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/cockpit/internal/adapters/mq/queue"
	"github.com/okian/cockpit/internal/adapters/mq/worker"
	"github.com/okian/cockpit/internal/adapters/repository"
	"github.com/okian/cockpit/internal/adapters/snapshot"
	"github.com/okian/cockpit/internal/domain/binding"
	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/panel"
	"github.com/okian/cockpit/internal/domain/profile"
	"github.com/okian/cockpit/internal/domain/telemetry"
	"github.com/okian/cockpit/internal/domain/value"
	"github.com/okian/cockpit/pkg/clock"
	"github.com/okian/cockpit/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// Service polls the simulator regions on a ticker and fans every decoded
// value out to the telemetry interface and the value store.
type Service struct {
	mu sync.RWMutex

	// Configuration
	pollInterval    time.Duration
	reopenInterval  time.Duration
	interfaceName   string
	panelEnabled    bool
	recordPath      string
	recordQueueSize int
	sources         SourceFactory
	commandHandler  telemetry.CommandHandler
	clock           clock.Clock

	// Core components
	store    *repository.ValueStore
	iface    *telemetry.Interface
	profile  *profile.Profile
	decoder  *telemetry.Decoder
	queue    *queue.InMemoryQueue
	worker   *worker.InMemoryWorker
	recorder *snapshot.Recorder
	taps     []*snapshot.Tap

	// State
	started      bool
	cancel       context.CancelFunc
	workerCancel context.CancelFunc
	loopDone     chan struct{}
	pollMu       sync.Mutex
	lastReopen   time.Time
	polls        atomic.Uint64
	lastPoll     atomic.Pointer[telemetry.PollResult]

	logger logger.Logger
}

// New constructs a new Service with default configuration. Without a
// source factory both regions are in-memory and empty.
func New(opts ...Option) *Service {
	s := &Service{
		pollInterval:    100 * time.Millisecond,
		reopenInterval:  5 * time.Second,
		interfaceName:   telemetry.DefaultInterfaceName,
		panelEnabled:    true,
		recordQueueSize: 1024,
		clock:           clock.Real(),
		sources: func() (telemetry.Source, telemetry.Source, error) {
			return snapshot.NewMemory(nil), snapshot.NewMemory(nil), nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds every component, opens the sources and starts the poll loop.
// Regions that fail to open are retried from the loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting cockpit service...")

	primary, secondary, err := s.sources()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSources, err)
	}

	handler := s.commandHandler
	if handler == nil {
		handler = s.logCommand
	}
	ifaceOpts := []telemetry.InterfaceOption{
		telemetry.WithInterfaceName(s.interfaceName),
		telemetry.WithCommandHandler(handler),
		telemetry.WithInterfaceLogger(s.logger.Named("interface")),
	}
	if s.panelEnabled {
		ifaceOpts = append(ifaceOpts, telemetry.WithCommands(panel.Commands()...))
	}
	iface, err := telemetry.NewInterface(ifaceOpts...)
	if err != nil {
		return fmt.Errorf("building telemetry interface: %w", err)
	}

	prof := profile.New("default", profile.WithLogger(s.logger.Named("profile")))
	if err := prof.AddInterface(ctx, iface); err != nil {
		return fmt.Errorf("attaching telemetry interface: %w", err)
	}
	if s.panelEnabled {
		if err := prof.AddComponent(ctx, panel.NewCaution(s.interfaceName)); err != nil {
			return fmt.Errorf("attaching caution panel: %w", err)
		}
	}

	store := repository.NewValueStore(ctx, repository.WithClock(s.clock))

	if s.recordPath != "" {
		primary, secondary, err = s.startRecording(ctx, primary, secondary)
		if err != nil {
			_ = store.Close()
			return err
		}
	}

	s.store, s.iface, s.profile = store, iface, prof
	s.decoder = telemetry.NewDecoder(primary, secondary,
		telemetry.MultiPublisher{iface, store},
		telemetry.WithClock(s.clock),
		telemetry.WithLogger(s.logger.Named("decoder")))
	if err := s.decoder.Open(ctx); err != nil {
		s.logger.Warn(ctx, "regions unavailable, retrying in the background",
			logger.Duration("every", s.reopenInterval), logger.Error(err))
	}
	s.lastReopen = s.clock.Now()
	s.polls.Store(0)
	s.lastPoll.Store(nil)

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loopDone = make(chan struct{})
	go s.run(loopCtx, s.loopDone, s.decoder)

	s.started = true
	s.logger.Info(ctx, "cockpit service started",
		logger.Duration("pollInterval", s.pollInterval),
		logger.String("interface", s.interfaceName),
		logger.Int("bindings", prof.Graph().Len()),
		logger.Bool("recording", s.recordPath != ""),
	)
	return nil
}

// startRecording opens the recorder and wraps both sources in taps feeding
// its queue.
func (s *Service) startRecording(ctx context.Context, primary, secondary telemetry.Source) (telemetry.Source, telemetry.Source, error) {
	session := uuid.New()
	rec, err := snapshot.NewRecorder(s.recordPath, snapshot.WithSession(session), snapshot.WithRecorderClock(s.clock))
	if err != nil {
		return nil, nil, err
	}
	s.recorder = rec
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.recordQueueSize))
	s.worker = worker.NewInMemoryWorker(s.queue, rec,
		worker.WithName("recorder"), worker.WithLogger(s.logger.Named("recorder")))
	// The worker outlives the poll loop so Stop can drain it.
	workerCtx, workerCancel := context.WithCancel(context.WithoutCancel(ctx))
	s.workerCancel = workerCancel
	go s.worker.Run(workerCtx)

	tap := func(src telemetry.Source, region string) telemetry.Source {
		if src == nil {
			return nil
		}
		t := snapshot.NewTap(src, region, session, s.queue,
			snapshot.WithTapClock(s.clock), snapshot.WithTapLogger(s.logger.Named("tap")))
		s.taps = append(s.taps, t)
		return t
	}
	s.logger.Info(ctx, "recording snapshots",
		logger.String("path", s.recordPath), logger.String("session", session.String()))
	return tap(primary, telemetry.RegionPrimary), tap(secondary, telemetry.RegionSecondary), nil
}

func (s *Service) run(ctx context.Context, done chan struct{}, dec *telemetry.Decoder) {
	defer close(done)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reopen(ctx, dec)
			s.poll(ctx, dec)
		}
	}
}

// reopen retries regions that are not open, at most once per reopen interval.
func (s *Service) reopen(ctx context.Context, dec *telemetry.Decoder) {
	p, q := dec.Opened()
	if p && q {
		return
	}
	now := s.clock.Now()
	if now.Sub(s.lastReopen) < s.reopenInterval {
		return
	}
	s.lastReopen = now
	_ = dec.Open(ctx)
}

// PollOnce runs one decoder poll outside the ticker. Polls never overlap.
func (s *Service) PollOnce(ctx context.Context) (telemetry.PollResult, error) {
	s.mu.RLock()
	dec, started := s.decoder, s.started
	s.mu.RUnlock()
	if !started {
		return telemetry.PollResult{}, ErrNotStarted
	}
	return s.poll(ctx, dec), nil
}

func (s *Service) poll(ctx context.Context, dec *telemetry.Decoder) telemetry.PollResult {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	res := dec.Poll(ctx)
	s.polls.Add(1)
	s.lastPoll.Store(&res)
	return res
}

// Stop halts the poll loop, closes the sources and flushes the recording.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping cockpit service...")

	s.cancel()
	<-s.loopDone

	if err := s.decoder.Close(); err != nil {
		s.logger.Error(ctx, "closing regions", logger.Error(err))
	}

	if s.queue != nil {
		_ = s.queue.Close()
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		if err := s.worker.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "recorder did not drain", logger.Error(err))
		}
		cancel()
		s.workerCancel()
		<-s.worker.Done()
		if err := s.recorder.Close(); err != nil {
			s.logger.Error(ctx, "closing recording", logger.Error(err))
		}
		var dropped uint64
		for _, t := range s.taps {
			dropped += t.Dropped()
		}
		s.logger.Info(ctx, "recording closed",
			logger.String("path", s.recordPath),
			logger.Int("frames", s.recorder.Frames()),
			logger.Int("dropped", int(dropped)))
		s.queue, s.worker, s.recorder, s.taps, s.workerCancel = nil, nil, nil, nil, nil
	}

	_ = s.store.Close()

	s.started = false
	s.logger.Info(ctx, "cockpit service stopped")
}

func (s *Service) logCommand(ctx context.Context, cmd telemetry.Command, pressed bool) error {
	s.logger.Info(ctx, "command",
		logger.String("device", cmd.Device),
		logger.String("element", cmd.Element),
		logger.Bool("pressed", pressed))
	return nil
}

// Profile returns the binding profile, or nil before the first Start.
func (s *Service) Profile() *profile.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Interface returns the telemetry interface, or nil before the first Start.
func (s *Service) Interface() *telemetry.Interface {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.iface
}

// Get returns the latest value stored for category.field.
func (s *Service) Get(ctx context.Context, category, field string) (repository.Entry, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return repository.Entry{}, ErrNotStarted
	}
	return store.Get(ctx, category, field)
}

// List returns the stored values of category, or all when it is empty.
func (s *Service) List(ctx context.Context, category string) []repository.Entry {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil
	}
	return store.List(ctx, category)
}

// Bindings lists the active bindings.
func (s *Service) Bindings() []binding.View {
	p := s.Profile()
	if p == nil {
		return nil
	}
	return p.Graph().Bindings()
}

// Fire fires a registered trigger through the binding graph. It waits for a
// running poll, so dispatch never interleaves with one.
func (s *Service) Fire(ctx context.Context, source capability.NamedSlot, v value.Value) error {
	p := s.Profile()
	if p == nil {
		return ErrNotStarted
	}
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	return p.Graph().Fire(ctx, source, v)
}

// Contacts returns the visible RWR contacts.
func (s *Service) Contacts() []telemetry.RadarContact {
	s.mu.RLock()
	dec := s.decoder
	s.mu.RUnlock()
	if dec == nil {
		return nil
	}
	return dec.Contacts()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"pollIntervalMs": s.pollInterval.Milliseconds(),
		"interface":      s.interfaceName,
		"polls":          s.polls.Load(),
	}
	if !s.started {
		return stats
	}

	stats["values"] = s.store.Count(ctx)
	stats["bindings"] = s.profile.Graph().Len()
	primaryReady, secondaryReady := s.decoder.Ready()
	stats["primaryReady"] = primaryReady
	stats["secondaryReady"] = secondaryReady
	stats["contacts"] = len(s.decoder.Contacts())
	if res := s.lastPoll.Load(); res != nil {
		stats["lastPrimary"] = res.Primary.String()
		stats["lastSecondary"] = res.Secondary.String()
		stats["lastPublished"] = res.Published
	}
	if s.recorder != nil {
		var dropped uint64
		for _, t := range s.taps {
			dropped += t.Dropped()
		}
		stats["recordPath"] = s.recordPath
		stats["recordedFrames"] = s.recorder.Frames()
		stats["recordQueueLength"] = s.queue.Len(ctx)
		stats["recordDropped"] = dropped
	}
	return stats
}
