//go:build !(darwin || linux)

package snapshot

import (
	"context"
	"fmt"
)

// Mapped is unavailable on this platform; Open always fails.
type Mapped struct {
	path string
}

// NewMapped returns a region that cannot be opened here.
func NewMapped(path string) *Mapped {
	return &Mapped{path: path}
}

// Path returns the mapped file path.
func (m *Mapped) Path() string { return m.path }

// Open reports ErrUnsupported.
func (m *Mapped) Open(context.Context) error {
	return fmt.Errorf("memory-mapped region %s: %w", m.path, ErrUnsupported)
}

// DataAvailable is always false.
func (m *Mapped) DataAvailable() bool { return false }

// ReadSnapshot reports ErrNotOpen.
func (m *Mapped) ReadSnapshot() ([]byte, error) { return nil, ErrNotOpen }

// Close does nothing.
func (m *Mapped) Close() error { return nil }
