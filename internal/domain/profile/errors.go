package profile

import "errors"

// Sentinel kinds for profile errors.
var (
	ErrDuplicateName = errors.New("duplicate name")
	ErrNotFound      = errors.New("not found")
)
