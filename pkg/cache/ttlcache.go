// Package cache provides small in-process, TTL-bounded caches for
// read-mostly reference data (ports catalog, company names). Each
// cache is process-local by design: writes elsewhere do not invalidate
// it, staleness is bounded purely by TTL, and no coordination across
// instances is required or attempted (spec §9).
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a generic, type-safe, lazily-expiring cache. Expired
// entries are evicted on the next Get or Set that touches their key,
// not by a background sweep — this keeps the cache free of goroutines
// to manage and matches "best-effort reads" (spec §9).
type TTLCache[K comparable, V any] struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
	m   map[K]entry[V]
}

// New constructs a TTLCache with the given time-to-live for every
// entry. Use NewWithClock in tests that need a controllable clock.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return NewWithClock[K, V](ttl, time.Now)
}

// NewWithClock is New with an injectable clock, for deterministic TTL
// expiry tests.
func NewWithClock[K comparable, V any](ttl time.Duration, now func() time.Time) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		ttl: ttl,
		now: now,
		m:   make(map[K]entry[V]),
	}
}

// Get returns the cached value for key and true, or the zero value and
// false if the key is absent or its entry has expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's configured TTL,
// overwriting any existing entry.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Delete removes key unconditionally. Used when a write path wants to
// force a refresh ahead of TTL expiry, even though the cache contract
// does not require it.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

// Len reports the number of entries currently stored, including any
// not yet lazily evicted past their TTL. Intended for tests and
// diagnostics, not capacity control.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
