package snapshot

import (
	"time"

	"github.com/google/uuid"
)

// Recording file layout: one msgpack Header followed by msgpack-encoded
// model.Frame values until EOF.
const (
	RecordingFormat  = "cockpit-snapshot"
	RecordingVersion = 1
)

// Header opens every recording.
type Header struct {
	Format  string    `msgpack:"format"`
	Version int       `msgpack:"version"`
	Session uuid.UUID `msgpack:"session"`
	Created time.Time `msgpack:"created"`
}
