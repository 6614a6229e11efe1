package capability

import "errors"

// Sentinel kinds for capability registry errors.
var (
	ErrUnknownSlot   = errors.New("unknown slot")
	ErrDuplicateSlot = errors.New("duplicate slot")
	ErrInvalidSlot   = errors.New("invalid slot")
	ErrAmbiguousSlot = errors.New("ambiguous slot key")
)
