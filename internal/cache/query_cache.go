// ABOUTME: QueryCache stores full query responses keyed by normalized question and filters
// ABOUTME: Short TTL by design: answers go stale with new content faster than embeddings
package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/harper/portfolio-rag/internal/models"
)

// QueryCache caches complete query responses in memory with a TTL
type QueryCache struct {
	store *MemoryCache[models.QueryResponse]
	ttl   time.Duration
}

// NewQueryCache creates a QueryCache with the given result TTL
func NewQueryCache(ttl time.Duration) *QueryCache {
	return &QueryCache{
		store: NewMemoryCache[models.QueryResponse](),
		ttl:   ttl,
	}
}

// Key derives a deterministic cache key from the normalized question and
// context filters. Identical questions differing only in case or surrounding
// whitespace share a key; different filters never collide.
func (qc *QueryCache) Key(question string, contextType models.SourceType, sourceID string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	ct := string(contextType)
	if ct == "" {
		ct = "all"
	}
	if sourceID == "" {
		sourceID = "all"
	}
	return "query:" + HashText(fmt.Sprintf("%s:%s:%s", normalized, ct, sourceID))
}

// Get returns the cached response for key, or ErrCacheMiss/ErrCacheExpired
func (qc *QueryCache) Get(key string) (models.QueryResponse, error) {
	return qc.store.Get(key)
}

// Put caches a response under key for the configured TTL
func (qc *QueryCache) Put(key string, response models.QueryResponse) {
	qc.store.Put(key, response, qc.ttl)
}

// Clear empties the cache and returns the number of entries removed
func (qc *QueryCache) Clear() int {
	return qc.store.Clear()
}
