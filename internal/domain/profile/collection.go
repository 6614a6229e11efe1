package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/cockpit/internal/domain/capability"
)

// Observer is told about every add and remove on a Collection.
type Observer interface {
	OnAdded(ctx context.Context, c capability.Component)
	OnRemoved(ctx context.Context, c capability.Component)
}

// ObserverFuncs adapts two functions to Observer. Either may be nil.
type ObserverFuncs struct {
	Added   func(ctx context.Context, c capability.Component)
	Removed func(ctx context.Context, c capability.Component)
}

// OnAdded calls Added.
func (o ObserverFuncs) OnAdded(ctx context.Context, c capability.Component) {
	if o.Added != nil {
		o.Added(ctx, c)
	}
}

// OnRemoved calls Removed.
func (o ObserverFuncs) OnRemoved(ctx context.Context, c capability.Component) {
	if o.Removed != nil {
		o.Removed(ctx, c)
	}
}

// Collection is a named set of components that notifies subscribers of
// changes. Observers are called after the change, outside the lock, in
// subscription order.
type Collection struct {
	mu        sync.RWMutex
	items     map[string]capability.Component
	order     []string
	observers map[int]Observer
	obsOrder  []int
	nextID    int
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		items:     make(map[string]capability.Component),
		observers: make(map[int]Observer),
	}
}

// Subscribe registers o and returns a function that unregisters it.
func (c *Collection) Subscribe(o Observer) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = o
	c.obsOrder = append(c.obsOrder, id)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
		for i, other := range c.obsOrder {
			if other == id {
				c.obsOrder = append(c.obsOrder[:i], c.obsOrder[i+1:]...)
				break
			}
		}
	}
}

func (c *Collection) snapshotObservers() []Observer {
	out := make([]Observer, 0, len(c.obsOrder))
	for _, id := range c.obsOrder {
		out = append(out, c.observers[id])
	}
	return out
}

// Add inserts item under its name.
func (c *Collection) Add(ctx context.Context, item capability.Component) error {
	c.mu.Lock()
	if _, ok := c.items[item.Name()]; ok {
		c.mu.Unlock()
		return fmt.Errorf("%q: %w", item.Name(), ErrDuplicateName)
	}
	c.items[item.Name()] = item
	c.order = append(c.order, item.Name())
	obs := c.snapshotObservers()
	c.mu.Unlock()

	for _, o := range obs {
		o.OnAdded(ctx, item)
	}
	return nil
}

// Remove deletes the named item.
func (c *Collection) Remove(ctx context.Context, name string) error {
	c.mu.Lock()
	item, ok := c.items[name]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	delete(c.items, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	obs := c.snapshotObservers()
	c.mu.Unlock()

	for _, o := range obs {
		o.OnRemoved(ctx, item)
	}
	return nil
}

// Get returns the named item.
func (c *Collection) Get(name string) (capability.Component, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[name]
	return item, ok
}

// Items returns all items in insertion order.
func (c *Collection) Items() []capability.Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]capability.Component, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.items[n])
	}
	return out
}

// Len returns the number of items.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
