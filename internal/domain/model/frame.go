// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Frame is one snapshot read from a region, as recorded and replayed.
// Field tags define the recording file format.
type Frame struct {
	Session uuid.UUID `msgpack:"session"` // recording session
	Region  string    `msgpack:"region"`  // "primary" or "secondary"
	Seq     uint64    `msgpack:"seq"`     // per-region read counter
	At      time.Time `msgpack:"at"`      // when the snapshot was read
	Data    []byte    `msgpack:"data"`    // raw region bytes
}

// Clone returns a copy of f that does not share Data.
func (f Frame) Clone() Frame {
	f.Data = append([]byte(nil), f.Data...)
	return f
}
