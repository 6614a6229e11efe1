package service

import (
	"time"

	"github.com/okian/cockpit/internal/domain/telemetry"
	"github.com/okian/cockpit/pkg/clock"
	"github.com/okian/cockpit/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used by the decoder and the value store.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithPollInterval sets the decoder poll period.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithReopenInterval sets how often regions that failed to open are retried.
func WithReopenInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.reopenInterval = d
		}
	}
}

// WithSourceFactory sets how the snapshot sources are built on every Start.
func WithSourceFactory(f SourceFactory) Option {
	return func(s *Service) {
		if f != nil {
			s.sources = f
		}
	}
}

// WithInterfaceName names the telemetry interface.
func WithInterfaceName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.interfaceName = name
		}
	}
}

// WithPanel attaches the caution panel when enabled.
func WithPanel(enabled bool) Option {
	return func(s *Service) { s.panelEnabled = enabled }
}

// WithRecording records every snapshot read to path through a queue of
// queueSize frames. An empty path disables recording.
func WithRecording(path string, queueSize int) Option {
	return func(s *Service) {
		s.recordPath = path
		if queueSize > 0 {
			s.recordQueueSize = queueSize
		}
	}
}

// WithCommandHandler sets where panel commands go. By default they are
// logged.
func WithCommandHandler(h telemetry.CommandHandler) Option {
	return func(s *Service) {
		if h != nil {
			s.commandHandler = h
		}
	}
}
