package composite

import "errors"

// Sentinel kinds for composite errors.
var (
	ErrInterfaceNotFound = errors.New("default interface not found")
	ErrChildNotFound     = errors.New("child not found")
	ErrDuplicateChild    = errors.New("duplicate child")
)
