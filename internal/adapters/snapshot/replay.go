package snapshot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/okian/cockpit/internal/domain/model"
)

// ReadRecording decodes a whole recording file.
func ReadRecording(path string) (Header, []model.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("opening recording %s: %w", path, err)
	}
	defer f.Close()
	return DecodeRecording(bufio.NewReader(f))
}

// DecodeRecording decodes a header and every frame from r.
func DecodeRecording(r io.Reader) (Header, []model.Frame, error) {
	dec := msgpack.NewDecoder(r)
	var hdr Header
	if err := dec.Decode(&hdr); err != nil {
		return Header{}, nil, fmt.Errorf("reading recording header: %w", err)
	}
	if hdr.Format != RecordingFormat || hdr.Version > RecordingVersion {
		return Header{}, nil, fmt.Errorf("recording %q v%d: %w", hdr.Format, hdr.Version, ErrUnsupported)
	}
	var frames []model.Frame
	for {
		var f model.Frame
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return hdr, frames, nil
		}
		if err != nil {
			return hdr, frames, fmt.Errorf("reading frame %d: %w", len(frames), err)
		}
		frames = append(frames, f)
	}
}

// Replay plays a recording back as one Source per region. Every read
// advances that region by one frame. Without looping, a region reports no
// data once its frames run out.
type Replay struct {
	path string
	loop bool

	mu     sync.Mutex
	header Header
	frames map[string][]model.Frame
	refs   int
}

// ReplayOption configures a Replay.
type ReplayOption func(*Replay)

// WithLoop restarts each region from its first frame after the last.
func WithLoop(loop bool) ReplayOption {
	return func(r *Replay) { r.loop = loop }
}

// NewReplay returns a replay of path. The file is read when the first
// region opens.
func NewReplay(path string, opts ...ReplayOption) *Replay {
	r := &Replay{path: path}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Region returns the source for one region label.
func (r *Replay) Region(region string) *ReplayRegion {
	return &ReplayRegion{replay: r, region: region}
}

// Header returns the header of the loaded recording.
func (r *Replay) Header() Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header
}

func (r *Replay) acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs == 0 {
		hdr, frames, err := ReadRecording(r.path)
		if err != nil {
			return err
		}
		r.header = hdr
		r.frames = make(map[string][]model.Frame)
		for _, f := range frames {
			r.frames[f.Region] = append(r.frames[f.Region], f)
		}
	}
	r.refs++
	return nil
}

func (r *Replay) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs == 0 {
		return
	}
	r.refs--
	if r.refs == 0 {
		r.frames = nil
	}
}

func (r *Replay) frame(region string, i int) (model.Frame, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	frames := r.frames[region]
	if len(frames) == 0 {
		return model.Frame{}, i, false
	}
	if i >= len(frames) {
		if !r.loop {
			return model.Frame{}, i, false
		}
		i = 0
	}
	return frames[i], i + 1, true
}

// ReplayRegion is one region of a Replay.
type ReplayRegion struct {
	replay *Replay
	region string

	mu     sync.Mutex
	open   bool
	closed bool
	next   int
}

// Open loads the recording if no other region has.
func (s *ReplayRegion) Open(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.open {
		return nil
	}
	if err := s.replay.acquire(); err != nil {
		return err
	}
	s.open = true
	return nil
}

// DataAvailable reports whether a frame is left to read.
func (s *ReplayRegion) DataAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return false
	}
	_, _, ok := s.replay.frame(s.region, s.next)
	return ok
}

// ReadSnapshot returns the next frame's data.
func (s *ReplayRegion) ReadSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		if s.closed {
			return nil, ErrClosed
		}
		return nil, ErrNotOpen
	}
	f, next, ok := s.replay.frame(s.region, s.next)
	if !ok {
		return nil, io.EOF
	}
	s.next = next
	return f.Data, nil
}

// Close releases the region. The recording is dropped once every region
// has closed.
func (s *ReplayRegion) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		s.replay.release()
	}
	s.open = false
	s.closed = true
	return nil
}
