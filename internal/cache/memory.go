// ABOUTME: In-memory TTL cache used as the fast tier for vectors and query results
// ABOUTME: RWMutex-guarded map with lazy expiry on read and explicit sweeping
package cache

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrCacheMiss means the key was never stored (or was evicted)
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheExpired means the key exists but its entry has passed its TTL.
	// Reported distinctly from a miss so callers can tell stale from absent.
	ErrCacheExpired = errors.New("cache entry expired")
)

type memoryItem[V any] struct {
	value     V
	expiresAt time.Time
}

// MemoryCache is a TTL'd in-memory key-value store. Safe for concurrent use;
// readers tolerate concurrent writers (last write wins).
type MemoryCache[V any] struct {
	mu    sync.RWMutex
	items map[string]memoryItem[V]
	now   func() time.Time
}

// NewMemoryCache creates an empty MemoryCache
func NewMemoryCache[V any]() *MemoryCache[V] {
	return &MemoryCache[V]{
		items: make(map[string]memoryItem[V]),
		now:   time.Now,
	}
}

// Get returns the live value for key. Expired entries are removed and
// reported as ErrCacheExpired; absent keys as ErrCacheMiss.
func (c *MemoryCache[V]) Get(key string) (V, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, ErrCacheMiss
	}
	if c.now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return zero, ErrCacheExpired
	}
	return item.value, nil
}

// Put stores value under key for ttl. A non-positive ttl stores nothing.
func (c *MemoryCache[V]) Put(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.items[key] = memoryItem[V]{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes key if present
func (c *MemoryCache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear empties the cache and returns the number of entries removed
func (c *MemoryCache[V]) Clear() int {
	c.mu.Lock()
	n := len(c.items)
	c.items = make(map[string]memoryItem[V])
	c.mu.Unlock()
	return n
}

// Sweep removes all expired entries and returns how many were dropped
func (c *MemoryCache[V]) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the current entry count, expired or not
func (c *MemoryCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
