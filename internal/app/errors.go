package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrSources    = errors.New("cannot build snapshot sources")
)
