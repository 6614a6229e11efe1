package telemetry

import "context"

// Source is one snapshot region. It is sampled, never awaited: Poll checks
// DataAvailable and reads the current snapshot when it reports true.
type Source interface {
	Open(ctx context.Context) error
	DataAvailable() bool
	ReadSnapshot() ([]byte, error)
	Close() error
}

// Region labels used in logs and metrics.
const (
	RegionPrimary   = "primary"
	RegionSecondary = "secondary"
)

// RegionStatus is the outcome of one region in one poll.
type RegionStatus int

const (
	// StatusUnavailable means the region was not open or had no data.
	StatusUnavailable RegionStatus = iota
	// StatusUpdated means the region decoded and its values were published.
	StatusUpdated
	// StatusMismatch means the snapshot did not fit the layout; the
	// previous record is kept.
	StatusMismatch
	// StatusReadFailed means the source failed to return a snapshot.
	StatusReadFailed
)

func (s RegionStatus) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusMismatch:
		return "mismatch"
	case StatusReadFailed:
		return "read_failed"
	default:
		return "unavailable"
	}
}

// PollResult summarizes one poll.
type PollResult struct {
	Primary   RegionStatus
	Secondary RegionStatus
	Published int
	// Err joins the publication errors of the poll, if any.
	Err error
}
