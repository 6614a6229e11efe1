// Package snapshot provides the sources the telemetry decoder polls: an
// in-memory region, a memory-mapped region file, and a recording replay,
// plus the recorder and tap that produce recordings.
package snapshot

import (
	"context"
	"sync"
)

// Memory is a region held in process memory. Set publishes a new snapshot.
type Memory struct {
	mu     sync.RWMutex
	buf    []byte
	open   bool
	closed bool
}

// NewMemory returns a region holding initial, which may be nil.
func NewMemory(initial []byte) *Memory {
	m := &Memory{}
	if initial != nil {
		m.Set(initial)
	}
	return m
}

// Open makes the region readable.
func (m *Memory) Open(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.open = true
	return nil
}

// Set replaces the current snapshot with a copy of buf. A nil buf makes the
// region report no data.
func (m *Memory) Set(buf []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if buf == nil {
		m.buf = nil
		return
	}
	m.buf = make([]byte, len(buf))
	copy(m.buf, buf)
}

// DataAvailable reports whether the region is open and holds a snapshot.
func (m *Memory) DataAvailable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.open && m.buf != nil
}

// ReadSnapshot returns a copy of the current snapshot.
func (m *Memory) ReadSnapshot() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.open {
		if m.closed {
			return nil, ErrClosed
		}
		return nil, ErrNotOpen
	}
	return append([]byte(nil), m.buf...), nil
}

// Close makes the region unreadable for good.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.closed = true
	return nil
}
