// Command snapgen writes a synthetic recording for the replay source.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/okian/cockpit/internal/snapgen"
	"github.com/okian/cockpit/pkg/logger"
)

const generateTimeout = 10 * time.Minute

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("snapgen", pflag.ContinueOnError)
	cfg := snapgen.Flags(fs)
	fs.Usage = func() { snapgen.Usage(os.Stderr, fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	if cfg.Verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	if _, err := snapgen.Run(ctx, *cfg); err != nil {
		os.Stderr.WriteString("generation failed: " + err.Error() + "\n")
		return 1
	}
	return 0
}
