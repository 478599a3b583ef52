package cache

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the capacity used when a non-positive size is requested.
const DefaultSize = 512

// LRU is a bounded, concurrency-safe cache for deterministic computations,
// such as tokenized templates keyed by their source text.
type LRU[K comparable, V any] struct {
	cache  *lru.Cache[K, V]
	mu     sync.Mutex
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats reports cache effectiveness.
type Stats struct {
	Len    int
	Hits   uint64
	Misses uint64
}

// New creates an LRU with the given capacity.
func New[K comparable, V any](size int) *LRU[K, V] {
	if size <= 0 {
		size = DefaultSize
	}
	// lru.New only fails for non-positive sizes, which are excluded above.
	c, _ := lru.New[K, V](size)
	return &LRU[K, V]{cache: c}
}

// Get returns the cached value for key.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	v, ok := c.cache.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores value under key, evicting the least recently used entry if full.
func (c *LRU[K, V]) Set(key K, value V) {
	c.cache.Add(key, value)
}

// GetOrCompute returns the cached value or computes, stores and returns it.
// Failed computations are not cached.
func (c *LRU[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	// Fast path
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the lock
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		return v, err
	}
	c.cache.Add(key, v)
	return v, nil
}

// Purge drops every entry and resets the counters.
func (c *LRU[K, V]) Purge() {
	c.cache.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns a snapshot of the cache counters.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Len:    c.cache.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
