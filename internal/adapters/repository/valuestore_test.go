package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/cockpit/internal/domain/value"
	"github.com/okian/cockpit/pkg/clock"
)

func newTestStore(t *testing.T) (*ValueStore, *clock.FakeClock) {
	t.Helper()
	clk := clock.Fake(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s := NewValueStore(context.Background(), WithClock(clk), WithMetricsUpdateInterval(time.Hour))
	t.Cleanup(func() { _ = s.Close() })
	return s, clk
}

func TestValueStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store, clk := newTestStore(t)

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	changed, err := store.Put(ctx, "Engine", "rpm", value.Number(85.5, value.UnitPercent))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Error("expected first put to report a change")
	}

	first := clk.Now()
	clk.Advance(time.Second)
	changed, err = store.Put(ctx, "Engine", "rpm", value.Number(85.5, value.UnitPercent))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Error("expected identical put to report no change")
	}

	entry, err := store.Get(ctx, "Engine", "rpm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Updates != 2 {
		t.Errorf("expected 2 updates, got %d", entry.Updates)
	}
	if !entry.Changed.Equal(first) {
		t.Errorf("expected changed time %v, got %v", first, entry.Changed)
	}
	if !entry.Updated.Equal(clk.Now()) {
		t.Errorf("expected updated time %v, got %v", clk.Now(), entry.Updated)
	}
	if entry.Key() != "Engine.rpm" {
		t.Errorf("unexpected key %q", entry.Key())
	}

	clk.Advance(time.Second)
	if changed, _ := store.Put(ctx, "Engine", "rpm", value.Number(90, value.UnitPercent)); !changed {
		t.Error("expected new value to report a change")
	}
	entry, _ = store.Get(ctx, "Engine", "rpm")
	if entry.Value.RawNumber() != 90 || !entry.Changed.Equal(clk.Now()) {
		t.Errorf("unexpected entry after change: %+v", entry)
	}
}

func TestValueStore_Errors(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if _, err := store.Get(ctx, "Engine", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Put(ctx, "", "rpm", value.Bool(true)); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if err := store.Publish(ctx, "Engine", "", value.Bool(true)); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid from Publish, got %v", err)
	}
}

func TestValueStore_ListAndCategories(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_ = store.Publish(ctx, "Warning", "fire", value.Bool(false))
	_ = store.Publish(ctx, "Engine", "rpm", value.Number(70, value.UnitPercent))
	_ = store.Publish(ctx, "Engine", "ftit", value.Number(650, value.UnitCelsius))
	_ = store.Publish(ctx, "Navigation", "tacan", value.Text("108X"))

	all := store.List(ctx, "")
	want := []string{"Engine.ftit", "Engine.rpm", "Navigation.tacan", "Warning.fire"}
	if len(all) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(all))
	}
	for i, k := range want {
		if all[i].Key() != k {
			t.Errorf("entry %d: expected %s, got %s", i, k, all[i].Key())
		}
	}

	engine := store.List(ctx, "Engine")
	if len(engine) != 2 {
		t.Errorf("expected 2 engine entries, got %d", len(engine))
	}
	if got := store.List(ctx, "Nope"); len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}

	cats := store.Categories(ctx)
	if len(cats) != 3 || cats[0] != "Engine" || cats[2] != "Warning" {
		t.Errorf("unexpected categories %v", cats)
	}
}

func TestValueStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = store.Publish(ctx, "Engine", "rpm", value.Number(float64(g*i), value.UnitPercent))
				_ = store.List(ctx, "")
			}
		}(g)
	}
	wg.Wait()

	entry, err := store.Get(ctx, "Engine", "rpm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Updates != 800 {
		t.Errorf("expected 800 updates, got %d", entry.Updates)
	}
}

func TestValueStore_CloseIsIdempotent(t *testing.T) {
	s := NewValueStore(context.Background())
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
