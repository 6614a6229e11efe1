package telemetry

import "errors"

// Sentinel kinds for telemetry errors.
var (
	// ErrRegionUnavailable means a region has not been populated yet.
	ErrRegionUnavailable = errors.New("region unavailable")
	// ErrDecodeMismatch means a snapshot did not fit the region's layout.
	ErrDecodeMismatch = errors.New("decode mismatch")
	// ErrTransportFailure wraps open and close failures of a snapshot source.
	ErrTransportFailure = errors.New("transport failure")
)
