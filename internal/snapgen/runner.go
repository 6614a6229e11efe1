package snapgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/cockpit/internal/adapters/snapshot"
	"github.com/okian/cockpit/internal/domain/model"
	"github.com/okian/cockpit/internal/domain/telemetry"
	"github.com/okian/cockpit/pkg/clock"
	"github.com/okian/cockpit/pkg/logger"
)

const (
	directoryPermission = 0750
	progressEvery       = 100
)

// Run writes a recording of cfg.Frames primary and secondary snapshots to
// cfg.Output. Frames are timestamped cfg.Interval apart starting at
// cfg.Start.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now().UTC()
	}
	log := logger.Get().Named("snapgen")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "generating recording",
		logger.String("output", cfg.Output),
		logger.Int("frames", cfg.Frames),
		logger.Duration("interval", cfg.Interval),
		logger.Int("contacts", cfg.Contacts))

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	rec, err := snapshot.NewRecorder(cfg.Output, snapshot.WithRecorderClock(clock.Fake(cfg.Start)))
	if err != nil {
		return nil, err
	}
	stats.Session = rec.Session().String()

	gen := NewGenerator(&cfg)
	writeErr := writeFrames(ctx, rec, gen, &cfg, stats, log)
	closeErr := rec.Close()
	if writeErr != nil {
		return stats, writeErr
	}
	if closeErr != nil {
		return stats, closeErr
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "recording written",
		logger.String("output", cfg.Output),
		logger.String("session", stats.Session),
		logger.Int("primaryFrames", stats.PrimaryFrames),
		logger.Int("secondaryFrames", stats.SecondaryFrames),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}

func writeFrames(ctx context.Context, rec *snapshot.Recorder, gen *Generator, cfg *Config, stats *Stats, log logger.Logger) error {
	for i := 0; i < cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generation cancelled after %d frames: %w", i, err)
		}
		at := cfg.Start.Add(time.Duration(i) * cfg.Interval)

		primary, err := gen.Primary(i).MarshalBinary()
		if err != nil {
			return fmt.Errorf("encoding primary frame %d: %w", i, err)
		}
		secondary, err := gen.Secondary(i).MarshalBinary()
		if err != nil {
			return fmt.Errorf("encoding secondary frame %d: %w", i, err)
		}

		seq := uint64(i + 1)
		if err := rec.Write(ctx, model.Frame{Region: telemetry.RegionPrimary, Seq: seq, At: at, Data: primary}); err != nil {
			return err
		}
		stats.PrimaryFrames++
		if err := rec.Write(ctx, model.Frame{Region: telemetry.RegionSecondary, Seq: seq, At: at, Data: secondary}); err != nil {
			return err
		}
		stats.SecondaryFrames++

		if cfg.Verbose && (i+1)%progressEvery == 0 {
			log.Debug(ctx, "progress", logger.Int("frames", i+1), logger.Float64("heading", gen.Heading(i)))
		}
	}
	return nil
}
