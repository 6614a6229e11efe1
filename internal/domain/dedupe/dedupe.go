// Package dedupe records wiring signatures so the same binding is
// materialized at most once, however often default resolution reruns.
package dedupe

import (
	"context"
	"strings"
	"sync"
)

// Deduper records seen signatures.
type Deduper interface {
	// SeenAndRecord atomically checks if sig was seen and records it if not.
	// Returns true if sig was already seen.
	SeenAndRecord(ctx context.Context, sig string) bool

	// Unrecord forgets sig, e.g. after the binding it guarded was removed
	// or failed to materialize.
	Unrecord(ctx context.Context, sig string)

	Size() int64
}

// Signature joins parts into one key. Parts are separated by a unit
// separator so "a.b"+"c" and "a"+"b.c" differ.
func Signature(parts ...string) string {
	return strings.Join(parts, "\x1f")
}

type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
	hint int
}

// NewInMemoryDeduper creates an unbounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.hint)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, sig string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[sig]; ok {
		return true
	}
	d.seen[sig] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, sig string) {
	d.mu.Lock()
	delete(d.seen, sig)
	d.mu.Unlock()
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
