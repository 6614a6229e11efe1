package service

import (
	"fmt"

	"github.com/okian/cockpit/internal/adapters/snapshot"
	"github.com/okian/cockpit/internal/config"
	"github.com/okian/cockpit/internal/domain/telemetry"
)

// SourceFactory builds the primary and secondary region sources.
type SourceFactory func() (primary, secondary telemetry.Source, err error)

// StaticSources returns a factory that always hands out the same sources.
func StaticSources(primary, secondary telemetry.Source) SourceFactory {
	return func() (telemetry.Source, telemetry.Source, error) {
		return primary, secondary, nil
	}
}

// SourcesFromConfig returns the factory selected by cfg.Source.
func SourcesFromConfig(cfg *config.Config) SourceFactory {
	return func() (telemetry.Source, telemetry.Source, error) {
		switch cfg.Source {
		case config.SourceMmap:
			return snapshot.NewMapped(cfg.PrimaryRegionPath), snapshot.NewMapped(cfg.SecondaryRegionPath), nil
		case config.SourceReplay:
			r := snapshot.NewReplay(cfg.ReplayPath, snapshot.WithLoop(cfg.ReplayLoop))
			return r.Region(telemetry.RegionPrimary), r.Region(telemetry.RegionSecondary), nil
		case config.SourceMemory:
			return snapshot.NewMemory(nil), snapshot.NewMemory(nil), nil
		}
		return nil, nil, fmt.Errorf("%w: unknown source %q", ErrSources, cfg.Source)
	}
}

// NewFromConfig builds a Service from cfg. Later options override the
// configured ones.
func NewFromConfig(cfg *config.Config, opts ...Option) *Service {
	base := []Option{
		WithPollInterval(cfg.PollInterval()),
		WithSourceFactory(SourcesFromConfig(cfg)),
		WithInterfaceName(cfg.InterfaceName),
		WithPanel(cfg.PanelEnabled),
		WithRecording(cfg.RecordPath, cfg.RecordQueueSize),
	}
	return New(append(base, opts...)...)
}
