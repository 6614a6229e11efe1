// Command cockpit decodes Falcon BMS shared memory into the cockpit binding
// graph and serves the result over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/okian/cockpit/internal/adapters/http/api"
	"github.com/okian/cockpit/internal/adapters/http/swagger"
	service "github.com/okian/cockpit/internal/app"
	"github.com/okian/cockpit/internal/config"
	"github.com/okian/cockpit/pkg/logger"
	"github.com/okian/cockpit/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// flags are command-line overrides applied on top of the loaded config.
type flags struct {
	configPath string
	addr       string
	source     string
	replay     string
	loop       bool
	record     string
	logLevel   string
	logFormat  string
}

func parseFlags(fs *pflag.FlagSet, args []string) (*flags, error) {
	f := &flags{}
	fs.StringVarP(&f.configPath, "config", "c", os.Getenv("COCKPIT_CONFIG"), "YAML config file")
	fs.StringVar(&f.addr, "addr", "", "HTTP listen address")
	fs.StringVar(&f.source, "source", "", "snapshot source: mmap, replay or memory")
	fs.StringVar(&f.replay, "replay", "", "recording to replay (implies --source=replay)")
	fs.BoolVar(&f.loop, "loop", false, "loop the replayed recording")
	fs.StringVar(&f.record, "record", "", "record polled snapshots to this file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text or json")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply overlays the flags the user actually set.
func (f *flags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("addr") {
		cfg.Addr = f.addr
	}
	if fs.Changed("source") {
		cfg.Source = f.source
	}
	if fs.Changed("replay") {
		cfg.ReplayPath = f.replay
		if !fs.Changed("source") {
			cfg.Source = config.SourceReplay
		}
	}
	if fs.Changed("loop") {
		cfg.ReplayLoop = f.loop
	}
	if fs.Changed("record") {
		cfg.RecordPath = f.record
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	return cfg.Validate()
}

func main() {
	// Go and process collectors are replaced by the system metrics below.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	fs := pflag.NewFlagSet("cockpit", pflag.ContinueOnError)
	fl, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Stderr.WriteString("invalid arguments: " + err.Error() + "\n")
		os.Exit(2)
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer syncLogger(context.Background())

	log := logger.Get().Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadFile(ctx, fl.configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := fl.apply(fs, cfg); err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		return
	}

	initMetrics(cfg)

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log = logger.Get().Named("main")

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := service.NewFromConfig(cfg, service.WithLogger(logger.Get()))
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("source", cfg.Source),
			logger.Duration("pollInterval", cfg.PollInterval()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// syncLogger flushes log output and reports a failure through the logger.
func syncLogger(ctx context.Context) {
	if err := logger.Sync(); err != nil {
		logger.Get().Error(ctx, "failed to sync logger", logger.Error(err))
	}
}

// initMetrics rebuilds the metrics registry with the configured namespace and
// constant labels.
func initMetrics(cfg *config.Config) *prometheus.Registry {
	return metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithCustomLabels(cfg.MetricsLabels),
	)
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
