package repository

import (
	"time"

	"github.com/okian/cockpit/pkg/clock"
)

// Option applies a configuration option to the ValueStore.
type Option func(*ValueStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *ValueStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithClock sets the clock stamping updates.
func WithClock(c clock.Clock) Option {
	return func(s *ValueStore) {
		if c != nil {
			s.clock = c
		}
	}
}
