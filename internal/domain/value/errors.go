package value

import "errors"

// Sentinel kinds for value access errors.
var (
	ErrKindMismatch = errors.New("value kind mismatch")
	ErrUnitMismatch = errors.New("value unit mismatch")
)
