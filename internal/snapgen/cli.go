package snapgen

import (
	"io"

	"github.com/spf13/pflag"
)

// Flags binds the snapgen command line to a Config.
func Flags(fs *pflag.FlagSet) *Config {
	cfg := &Config{}
	fs.StringVarP(&cfg.Output, "output", "o", "", "recording file to write (required)")
	fs.IntVarP(&cfg.Frames, "frames", "n", DefaultFrames, "snapshots per region")
	fs.DurationVar(&cfg.Interval, "interval", DefaultInterval, "simulated time between snapshots")
	fs.Uint64Var(&cfg.Seed, "seed", DefaultSeed, "seed for the RWR contacts")
	fs.IntVar(&cfg.Contacts, "contacts", DefaultContacts, "RWR contacts to place")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log progress")
	return cfg
}

// Usage writes the help text for fs to w.
func Usage(w io.Writer, fs *pflag.FlagSet) {
	_, _ = io.WriteString(w, `snapgen writes a synthetic Falcon BMS shared memory recording.

The ownship flies a slow constant-rate turn while caution lamps light in
turn, the outer marker blinks and RWR contacts drift around the scope.
Play it back with: cockpit --replay <file> --loop

Usage:
  snapgen --output flight.rec [options]

Options:
`)
	_, _ = io.WriteString(w, fs.FlagUsages())
}
