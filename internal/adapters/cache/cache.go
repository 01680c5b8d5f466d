// Package cache provides a bounded in-memory cache for computed reports.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 1024

// Cache stores values by key.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Put(ctx context.Context, key string, value V)
	Size() int64
}

// entry is a node of the insertion-ordered list.
type entry[V any] struct {
	key   string
	value V
	next  *entry[V]
}

func (e *entry[V]) reset() {
	var zero V
	e.key = ""
	e.value = zero
	e.next = nil
}

// InMemory implements Cache with FIFO eviction.
// For bounded mode (maxSize > 0): entries form a list from oldest (head)
// to newest (tail); nodes are pooled.
// For unbounded mode (maxSize <= 0): only the map is used.
type InMemory[V any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[V]
	head    *entry[V] // oldest
	tail    *entry[V] // newest
	maxSize int
	size    atomic.Int64
	pool    sync.Pool
}

// New creates an in-memory cache with configuration options.
func New[V any](opts ...Option) *InMemory[V] {
	s := settings{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(&s)
	}

	c := &InMemory[V]{
		entries: make(map[string]*entry[V]),
		maxSize: s.maxSize,
	}
	c.pool.New = func() any { return &entry[V]{} }
	return c
}

// Get returns the value stored under key.
func (c *InMemory[V]) Get(_ context.Context, key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key. Replacing a value keeps the key's position.
func (c *InMemory[V]) Put(_ context.Context, key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	e := c.pool.Get().(*entry[V])
	e.key, e.value = key, value
	if c.maxSize > 0 {
		if c.tail == nil {
			c.head = e
		} else {
			c.tail.next = e
		}
		c.tail = e
	}
	c.entries[key] = e
	c.size.Add(1)
}

// evictOldest removes the head of the list. Must be called with c.mu held.
func (c *InMemory[V]) evictOldest() {
	e := c.head
	if e == nil {
		return
	}
	c.head = e.next
	if c.head == nil {
		c.tail = nil
	}
	delete(c.entries, e.key)
	e.reset()
	c.pool.Put(e)
	c.size.Add(-1)
}

// Size returns the current number of entries.
func (c *InMemory[V]) Size() int64 {
	return c.size.Load()
}
