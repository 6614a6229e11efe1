package repository

import "errors"

// Sentinel kinds for value store errors.
var (
	ErrNotFound = errors.New("value not found")
	ErrInvalid  = errors.New("invalid value key")
)
