package snapshot

import "errors"

// Sentinel kinds for snapshot source errors.
var (
	ErrNotOpen     = errors.New("snapshot source not open")
	ErrClosed      = errors.New("snapshot source closed")
	ErrUnsupported = errors.New("snapshot source unsupported")
)
