// ABOUTME: Two-tier embedding cache: fast in-memory TTL tier over a durable store
// ABOUTME: Durable hits are promoted into the memory tier; expired entries never served
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/harper/portfolio-rag/internal/models"
)

// DurableVectorStore is the long-lived tier behind the in-memory one,
// keyed by text hash. Get returns (nil, nil) for absent entries.
type DurableVectorStore interface {
	GetEntry(textHash string) (*models.EmbeddingCacheEntry, error)
	PutEntry(entry *models.EmbeddingCacheEntry) error
	DeleteExpired(now time.Time) (int, error)
	DeleteOlderThan(cutoff time.Time) (int, error)
	Clear() (int, error)
}

// HashText returns the SHA-256 hex digest used as the cache key for a text
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// VectorCache coordinates the memory and durable embedding-cache tiers
type VectorCache struct {
	fast    *MemoryCache[[]float64]
	durable DurableVectorStore
	fastTTL time.Duration
}

// NewVectorCache creates a VectorCache. fastTTL bounds how long vectors live
// in the memory tier; durable-tier expiry is carried on each entry.
func NewVectorCache(durable DurableVectorStore, fastTTL time.Duration) *VectorCache {
	return &VectorCache{
		fast:    NewMemoryCache[[]float64](),
		durable: durable,
		fastTTL: fastTTL,
	}
}

// Get returns the cached vector for textHash, consulting the memory tier
// first and falling back to the durable tier. A durable hit is promoted into
// the memory tier. Expired durable entries are reported as ErrCacheExpired,
// absent ones as ErrCacheMiss.
func (vc *VectorCache) Get(textHash string) ([]float64, error) {
	if vector, err := vc.fast.Get(textHash); err == nil {
		return vector, nil
	}

	entry, err := vc.durable.GetEntry(textHash)
	if err != nil {
		return nil, fmt.Errorf("durable cache lookup: %w", err)
	}
	if entry == nil {
		return nil, ErrCacheMiss
	}
	if entry.IsExpired(time.Now()) {
		return nil, ErrCacheExpired
	}

	vc.fast.Put(textHash, entry.Vector, vc.fastTTL)
	return entry.Vector, nil
}

// Put writes the entry to both tiers. The durable tier keeps the entry's own
// expiry (or none); the memory tier uses the configured fast TTL.
func (vc *VectorCache) Put(entry *models.EmbeddingCacheEntry) error {
	if err := vc.durable.PutEntry(entry); err != nil {
		return fmt.Errorf("durable cache write: %w", err)
	}
	vc.fast.Put(entry.TextHash, entry.Vector, vc.fastTTL)
	return nil
}

// Prune drops expired entries from both tiers and returns the total removed
func (vc *VectorCache) Prune() (int, error) {
	dropped := vc.fast.Sweep()
	durableDropped, err := vc.durable.DeleteExpired(time.Now())
	if err != nil {
		return dropped, fmt.Errorf("durable cache prune: %w", err)
	}
	return dropped + durableDropped, nil
}

// PruneOlderThan drops durable entries created before the cutoff, whether or
// not they carry an expiry. The memory tier is not consulted; its entries age
// out on the fast TTL.
func (vc *VectorCache) PruneOlderThan(cutoff time.Time) (int, error) {
	n, err := vc.durable.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("durable cache age prune: %w", err)
	}
	return n, nil
}

// Clear empties both tiers and returns the number of entries removed
func (vc *VectorCache) Clear() (int, error) {
	n := vc.fast.Clear()
	durableN, err := vc.durable.Clear()
	if err != nil {
		return n, fmt.Errorf("durable cache clear: %w", err)
	}
	return n + durableN, nil
}

// IsMiss reports whether err is a miss or expiry, i.e. "go compute it"
func IsMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss) || errors.Is(err, ErrCacheExpired)
}
