// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

// Package cache provides a thread-safe LRU cache with TTL support, used to
// absorb repeated reads of derived data such as analytics reports.
package cache

import (
	"sync"
	"time"

	"github.com/tomtom215/flickpulse/internal/metrics"
)

// entry is a node in the doubly-linked recency list.
type entry[V any] struct {
	key       string
	value     V
	prev      *entry[V]
	next      *entry[V]
	expiresAt time.Time
}

// LRUCache is a thread-safe Least Recently Used cache with TTL support.
// Get, Add, and eviction are all O(1); a doubly-linked list tracks recency
// and a map provides lookup. Expired entries are dropped lazily on access.
type LRUCache[V any] struct {
	mu sync.Mutex

	name     string
	capacity int
	ttl      time.Duration

	items map[string]*entry[V]

	// Sentinel nodes. head.next is most recently used, tail.prev least.
	head *entry[V]
	tail *entry[V]
}

// NewLRUCache creates a cache with the given capacity and TTL. The name
// labels the cache's metrics.
func NewLRUCache[V any](name string, capacity int, ttl time.Duration) *LRUCache[V] {
	if capacity <= 0 {
		capacity = 1024
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	c := &LRUCache[V]{
		name:     name,
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry[V], capacity),
		head:     &entry[V]{},
		tail:     &entry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the value for key if present and unexpired, marking it most
// recently used.
func (c *LRUCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	e, ok := c.items[key]
	if !ok {
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		c.remove(e)
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		return zero, false
	}

	c.moveToFront(e)
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return e.value, true
}

// Add inserts or refreshes an entry. At capacity, the least recently used
// entry is evicted.
func (c *LRUCache[V]) Add(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(e)
	c.items[key] = e

	for len(c.items) > c.capacity {
		oldest := c.tail.prev
		c.remove(oldest)
		metrics.CacheEvictions.WithLabelValues(c.name).Inc()
	}

	metrics.CacheSize.WithLabelValues(c.name).Set(float64(len(c.items)))
}

// Remove drops an entry, if present. Used to invalidate a user's report
// when new data lands.
func (c *LRUCache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.remove(e)
		metrics.CacheSize.WithLabelValues(c.name).Set(float64(len(c.items)))
	}
}

// Len returns the number of entries, counting any not-yet-collected
// expired ones.
func (c *LRUCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *LRUCache[V]) remove(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}

func (c *LRUCache[V]) addToFront(e *entry[V]) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *LRUCache[V]) moveToFront(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.addToFront(e)
}
