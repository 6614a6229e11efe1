//go:build darwin || linux

package snapshot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"golang.org/x/sys/unix"
)

// Mapped is a region backed by a read-only shared memory map of a file, the
// way the simulator exports its shared memory areas.
type Mapped struct {
	path string

	mu     sync.RWMutex
	data   []byte
	closed bool
}

// NewMapped returns an unopened region for path.
func NewMapped(path string) *Mapped {
	return &Mapped{path: path}
}

// Path returns the mapped file path.
func (m *Mapped) Path() string { return m.path }

// Open maps the whole file read-only. The descriptor is closed right away;
// the mapping stays valid until Close.
func (m *Mapped) Open(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.data != nil {
		return nil
	}

	fd, err := unix.Open(m.path, unix.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("opening region %s: %w", m.path, err)
	}
	defer unix.Close(fd)

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return fmt.Errorf("stating region %s: %w", m.path, err)
	}
	if stat.Size == 0 {
		return fmt.Errorf("region %s is empty: %w", m.path, ErrNotOpen)
	}

	data, err := unix.Mmap(fd, 0, int(stat.Size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("memory-mapping region %s: %w", m.path, err)
	}
	m.data = data
	return nil
}

// DataAvailable reports whether the mapping is live.
func (m *Mapped) DataAvailable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data != nil
}

// ReadSnapshot copies the mapping. A page fault on a truncated file is
// returned as an error instead of crashing the process.
func (m *Mapped) ReadSnapshot() (out []byte, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		if m.closed {
			return nil, ErrClosed
		}
		return nil, ErrNotOpen
	}

	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("page fault reading region %s: %v", m.path, r)
		}
	}()
	return append([]byte(nil), m.data...), nil
}

// Close unmaps the region. Later calls are no-ops.
func (m *Mapped) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("unmapping region %s: %w", m.path, err)
	}
	return nil
}
