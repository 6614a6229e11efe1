package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/cockpit/internal/domain/value"
	"github.com/okian/cockpit/pkg/clock"
	"github.com/okian/cockpit/pkg/metrics"
)

type storeKey struct {
	category string
	field    string
}

// ValueStore is an in-memory Store. Its Publish method lets the decoder
// write into it directly.
type ValueStore struct {
	mu      sync.RWMutex
	entries map[storeKey]*Entry
	clock   clock.Clock

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewValueStore constructs a store and starts its metrics updater, which
// stops when ctx ends or Close is called.
func NewValueStore(ctx context.Context, opts ...Option) *ValueStore {
	s := &ValueStore{
		entries:               make(map[storeKey]*Entry),
		clock:                 clock.Real(),
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)
	return s
}

func (s *ValueStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateStoreValues(s.Count(ctx))
			}
		}
	}()
}

// Close stops the metrics updater.
func (s *ValueStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Put implements Store.Put.
func (s *ValueStore) Put(_ context.Context, category, field string, v value.Value) (bool, error) {
	if category == "" || field == "" {
		return false, fmt.Errorf("%q.%q: %w", category, field, ErrInvalid)
	}
	now := s.clock.Now()
	k := storeKey{category, field}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[k]
	if !ok {
		s.entries[k] = &Entry{Category: category, Field: field, Value: v, Updated: now, Changed: now, Updates: 1}
		return true, nil
	}
	changed := !e.Value.Equal(v)
	e.Value = v
	e.Updated = now
	e.Updates++
	if changed {
		e.Changed = now
	}
	return changed, nil
}

// Publish stores a decoder value. It satisfies the telemetry publisher
// contract.
func (s *ValueStore) Publish(ctx context.Context, category, field string, v value.Value) error {
	_, err := s.Put(ctx, category, field, v)
	return err
}

// Get implements Store.Get.
func (s *ValueStore) Get(_ context.Context, category, field string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[storeKey{category, field}]
	if !ok {
		return Entry{}, fmt.Errorf("%s.%s: %w", category, field, ErrNotFound)
	}
	return *e, nil
}

// List implements Store.List.
func (s *ValueStore) List(_ context.Context, category string) []Entry {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for k, e := range s.entries {
		if category == "" || k.category == category {
			out = append(out, *e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// Categories implements Store.Categories.
func (s *ValueStore) Categories(_ context.Context) []string {
	s.mu.RLock()
	seen := make(map[string]struct{})
	for k := range s.entries {
		seen[k.category] = struct{}{}
	}
	s.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Count implements Store.Count.
func (s *ValueStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
