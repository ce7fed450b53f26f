// Package cache implements the bounded LRU+TTL cache shared by the
// SecretsClient and ConfigClient data-plane clients. Eviction order comes
// from hashicorp/golang-lru's LRU; expiry is tracked per entry and purged
// lazily on access.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultCapacity = 500
	DefaultTTL      = 5 * time.Minute
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a capacity-bounded, TTL-expiring, concurrency-safe cache. Entries
// beyond Capacity evict least-recently-used first; entries older than their
// TTL are treated as absent and removed on access. Cache never stores
// error results — callers are expected to call Put only after a successful
// fetch.
type Cache[K comparable, V any] struct {
	capacity   int
	defaultTTL time.Duration

	mu    sync.Mutex
	inner *lru.Cache[K, entry[V]]
}

// Config tunes a Cache's capacity and default entry lifetime.
type Config struct {
	Capacity   int
	DefaultTTL time.Duration
}

// New builds a Cache from cfg, filling in defaults for zero fields.
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	inner, _ := lru.New[K, entry[V]](cfg.Capacity)
	return &Cache[K, V]{
		capacity:   cfg.Capacity,
		defaultTTL: cfg.DefaultTTL,
		inner:      inner,
	}
}

// Get reports whether key has a live (non-expired) entry, and its value if
// so. A concurrent Put racing with Get may return either the old or the new
// value; last writer wins.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.inner.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		c.inner.Remove(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key. A zero or omitted ttl uses the cache's
// default TTL. Inserting into a full cache evicts the least-recently-used
// entry first.
func (c *Cache[K, V]) Put(key K, value V, ttl ...time.Duration) {
	lifetime := c.defaultTTL
	if len(ttl) > 0 && ttl[0] > 0 {
		lifetime = ttl[0]
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Add(key, entry[V]{value: value, expiresAt: time.Now().Add(lifetime)})
}

// Invalidate removes key's entry, if any.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Remove(key)
}

// Clear empties the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Purge()
}

// Len reports the number of stored entries, counting any whose expiry has
// passed but which no access has removed yet.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Len()
}
