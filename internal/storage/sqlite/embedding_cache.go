// ABOUTME: Durable embedding-cache tier backed by SQLite
// ABOUTME: One row per distinct text hash; expiry is interpreted by the cache layer
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/portfolio-rag/internal/models"
)

// EmbeddingCacheStore persists embedding cache entries.
// Implements cache.DurableVectorStore.
type EmbeddingCacheStore struct {
	db *DB
}

// NewEmbeddingCacheStore creates a new EmbeddingCacheStore
func NewEmbeddingCacheStore(db *DB) *EmbeddingCacheStore {
	return &EmbeddingCacheStore{db: db}
}

// GetEntry retrieves the entry for a text hash, or nil when absent.
// Expired entries are still returned; the cache layer decides how to
// report them (expired is distinct from missing).
func (s *EmbeddingCacheStore) GetEntry(textHash string) (*models.EmbeddingCacheEntry, error) {
	var (
		entry     models.EmbeddingCacheEntry
		preview   sql.NullString
		modelName sql.NullString
		blob      []byte
		expiresAt sql.NullTime
	)

	err := s.db.QueryRow(`
		SELECT text_hash, text_preview, vector, model_name, token_count, created_at, expires_at
		FROM embedding_cache
		WHERE text_hash = ?
	`, textHash).Scan(&entry.TextHash, &preview, &blob, &modelName,
		&entry.TokenCount, &entry.CreatedAt, &expiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if preview.Valid {
		entry.TextPreview = preview.String
	}
	if modelName.Valid {
		entry.ModelName = modelName.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		entry.ExpiresAt = &t
	}
	entry.Vector = blobToVector(blob)

	return &entry, nil
}

// PutEntry writes an entry, replacing any prior row for the same text hash
func (s *EmbeddingCacheStore) PutEntry(entry *models.EmbeddingCacheEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var expiresAt interface{}
	if entry.ExpiresAt != nil {
		expiresAt = *entry.ExpiresAt
	}

	_, err := s.db.Exec(`
		INSERT INTO embedding_cache (text_hash, text_preview, vector, model_name, token_count, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(text_hash) DO UPDATE SET
			text_preview = excluded.text_preview,
			vector = excluded.vector,
			model_name = excluded.model_name,
			token_count = excluded.token_count,
			expires_at = excluded.expires_at
	`, entry.TextHash, nullString(entry.TextPreview), vectorToBlob(entry.Vector),
		nullString(entry.ModelName), entry.TokenCount, entry.CreatedAt, expiresAt)

	return err
}

// DeleteExpired removes entries whose expiry has passed, returning the count
func (s *EmbeddingCacheStore) DeleteExpired(now time.Time) (int, error) {
	res, err := s.db.Exec(
		"DELETE FROM embedding_cache WHERE expires_at IS NOT NULL AND expires_at < ?", now,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// DeleteOlderThan removes entries created before the cutoff, returning the count
func (s *EmbeddingCacheStore) DeleteOlderThan(cutoff time.Time) (int, error) {
	res, err := s.db.Exec("DELETE FROM embedding_cache WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Clear removes all entries, returning the count
func (s *EmbeddingCacheStore) Clear() (int, error) {
	res, err := s.db.Exec("DELETE FROM embedding_cache")
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Count returns the number of cached entries
func (s *EmbeddingCacheStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM embedding_cache").Scan(&n)
	return n, err
}
