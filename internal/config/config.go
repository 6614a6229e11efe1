// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Loaders accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig; load failures wrap ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Source kinds accepted by Config.Source.
const (
	SourceMmap   = "mmap"
	SourceReplay = "replay"
	SourceMemory = "memory"
)

// metricName matches Prometheus namespaces and label names.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PollIntervalMS is the decoder poll period.
	PollIntervalMS int `koanf:"poll_interval_ms"`

	// Source selects where region snapshots come from: mmap, replay or memory.
	Source string `koanf:"source"`

	// PrimaryRegionPath and SecondaryRegionPath are the mapped region files
	// for the mmap source.
	PrimaryRegionPath   string `koanf:"primary_region_path"`
	SecondaryRegionPath string `koanf:"secondary_region_path"`

	// ReplayPath is the recording played by the replay source.
	ReplayPath string `koanf:"replay_path"`
	ReplayLoop bool   `koanf:"replay_loop"`

	// RecordPath enables recording every polled snapshot when non-empty.
	RecordPath string `koanf:"record_path"`

	// RecordQueueSize bounds the recorder frame queue.
	RecordQueueSize int `koanf:"record_queue_size"`

	// InterfaceName names the telemetry interface component.
	InterfaceName string `koanf:"interface_name"`

	// PanelEnabled attaches the caution panel bound to the telemetry interface.
	PanelEnabled bool `koanf:"panel_enabled"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsLabels are constant labels on every metric, e.g. {rig: left-seat}.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		PollIntervalMS:      100,
		Source:              SourceMmap,
		PrimaryRegionPath:   "/dev/shm/FalconSharedMemoryArea",
		SecondaryRegionPath: "/dev/shm/FalconSharedMemoryArea2",
		RecordQueueSize:     1024,
		InterfaceName:       "Falcon BMS",
		PanelEnabled:        true,
		MetricsNamespace:    "cockpit",
	}
}

// PollInterval returns PollIntervalMS as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PollIntervalMS <= 0:
		return fmt.Errorf("%w: poll_interval_ms must be positive, got %d", ErrInvalidConfig, c.PollIntervalMS)
	case c.RecordQueueSize <= 0:
		return fmt.Errorf("%w: record_queue_size must be positive, got %d", ErrInvalidConfig, c.RecordQueueSize)
	case c.InterfaceName == "":
		return fmt.Errorf("%w: interface_name must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case !metricName.MatchString(c.MetricsNamespace):
		return fmt.Errorf("%w: invalid metrics_namespace %q", ErrInvalidConfig, c.MetricsNamespace)
	}
	for name := range c.MetricsLabels {
		if !metricName.MatchString(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("%w: invalid metrics label %q", ErrInvalidConfig, name)
		}
	}
	switch c.Source {
	case SourceMmap:
		if c.PrimaryRegionPath == "" || c.SecondaryRegionPath == "" {
			return fmt.Errorf("%w: mmap source needs both region paths", ErrInvalidConfig)
		}
	case SourceReplay:
		if c.ReplayPath == "" {
			return fmt.Errorf("%w: replay source needs replay_path", ErrInvalidConfig)
		}
	case SourceMemory:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}
	return nil
}
