// Package snapgen synthesizes shared memory recordings for exercising the
// replay source without a running simulator.
package snapgen

import (
	"errors"
	"fmt"
	"time"
)

// Defaults used by the snapgen command.
const (
	DefaultFrames   = 600
	DefaultInterval = 100 * time.Millisecond
	DefaultSeed     = 1
	DefaultContacts = 4
)

// ErrInvalidConfig is returned for unusable generator settings.
var ErrInvalidConfig = errors.New("invalid snapgen config")

// Config holds configuration for a generation run.
type Config struct {
	Output   string        // recording file to write
	Frames   int           // snapshots per region
	Interval time.Duration // simulated time between snapshots
	Seed     uint64        // seed for reproducible contacts
	Contacts int           // RWR contacts to place, at most telemetry.MaxRwrObjects
	Start    time.Time     // timestamp of the first frame; zero means now
	Verbose  bool
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case c.Output == "":
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	case c.Frames <= 0:
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, c.Frames)
	case c.Interval <= 0:
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidConfig, c.Interval)
	case c.Contacts < 0 || c.Contacts > maxContacts:
		return fmt.Errorf("%w: contacts must be within 0..%d, got %d", ErrInvalidConfig, maxContacts, c.Contacts)
	}
	return nil
}

// Stats summarizes a generation run.
type Stats struct {
	Session         string
	PrimaryFrames   int
	SecondaryFrames int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
