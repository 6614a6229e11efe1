package controls

import "errors"

// Sentinel kinds for control errors.
var (
	ErrOutOfRange = errors.New("value out of range")
)
