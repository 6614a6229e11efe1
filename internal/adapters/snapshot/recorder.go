package snapshot

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/okian/cockpit/internal/domain/model"
	"github.com/okian/cockpit/pkg/clock"
)

// Recorder writes frames to a recording file. It is the sink the recorder
// worker drains the frame queue into.
type Recorder struct {
	path    string
	session uuid.UUID

	mu     sync.Mutex
	file   *os.File
	buf    *bufio.Writer
	enc    *msgpack.Encoder
	frames int
	closed bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderConfig)

type recorderConfig struct {
	session uuid.UUID
	clock   clock.Clock
}

// WithSession fixes the session id written to the header. By default a
// random one is generated.
func WithSession(id uuid.UUID) RecorderOption {
	return func(c *recorderConfig) { c.session = id }
}

// WithRecorderClock sets the clock used for the header timestamp.
func WithRecorderClock(c clock.Clock) RecorderOption {
	return func(cfg *recorderConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// NewRecorder creates (or truncates) path and writes the header.
func NewRecorder(path string, opts ...RecorderOption) (*Recorder, error) {
	cfg := recorderConfig{session: uuid.New(), clock: clock.Real()}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating recording %s: %w", path, err)
	}
	buf := bufio.NewWriter(f)
	r := &Recorder{
		path:    path,
		session: cfg.session,
		file:    f,
		buf:     buf,
		enc:     msgpack.NewEncoder(buf),
	}
	hdr := Header{
		Format:  RecordingFormat,
		Version: RecordingVersion,
		Session: cfg.session,
		Created: cfg.clock.Now().UTC(),
	}
	if err := r.enc.Encode(&hdr); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("writing recording header: %w", err)
	}
	return r, nil
}

// Session returns the recording session id.
func (r *Recorder) Session() uuid.UUID { return r.session }

// Path returns the recording file path.
func (r *Recorder) Path() string { return r.path }

// Frames returns the number of frames written.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Write appends f. Frames from another session are stamped with this one.
func (r *Recorder) Write(_ context.Context, f model.Frame) error { //nolint:gocritic // hugeParam: matches the worker sink signature
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	f.Session = r.session
	if err := r.enc.Encode(&f); err != nil {
		return fmt.Errorf("encoding %s frame %d: %w", f.Region, f.Seq, err)
	}
	r.frames++
	return nil
}

// Flush pushes buffered frames to the file.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return r.buf.Flush()
}

// Close flushes and closes the file. Later calls are no-ops.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	flushErr := r.buf.Flush()
	closeErr := r.file.Close()
	if flushErr != nil {
		return fmt.Errorf("flushing recording %s: %w", r.path, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing recording %s: %w", r.path, closeErr)
	}
	return nil
}
