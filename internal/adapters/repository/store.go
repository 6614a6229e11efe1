// Package repository keeps the latest value published for every telemetry
// key so it can be read back over HTTP.
package repository

import (
	"context"
	"time"

	"github.com/okian/cockpit/internal/domain/value"
)

// Entry is the latest value of one key.
type Entry struct {
	Category string      `json:"category"`
	Field    string      `json:"field"`
	Value    value.Value `json:"value"`
	Updated  time.Time   `json:"updated"`
	Changed  time.Time   `json:"changed"`
	Updates  uint64      `json:"updates"`
}

// Key returns "category.field".
func (e Entry) Key() string { return e.Category + "." + e.Field }

// Store provides read/write access to published values.
type Store interface {
	// Put records v as the latest value of category.field. It reports
	// whether the value differs from the previous one.
	Put(ctx context.Context, category, field string, v value.Value) (bool, error)

	// Get returns the latest entry for a key.
	// Returns ErrNotFound if nothing was published under it.
	Get(ctx context.Context, category, field string) (Entry, error)

	// List returns entries sorted by key. An empty category lists all.
	List(ctx context.Context, category string) []Entry

	// Categories returns the distinct categories, sorted.
	Categories(ctx context.Context) []string

	// Count returns the number of keys held.
	Count(ctx context.Context) int
}
