// ABOUTME: EmbeddingCacheEntry maps a text hash to its cached embedding vector
// ABOUTME: Entries optionally expire; expired entries are distinct from missing ones
package models

import "time"

// EmbeddingCacheEntry is one durable cache record for an embedded text.
// TextHash is a SHA-256 hex digest of the normalized input text; there is
// exactly one entry per distinct text.
type EmbeddingCacheEntry struct {
	TextHash    string     `json:"text_hash"`
	TextPreview string     `json:"text_preview"`
	Vector      []float64  `json:"vector"`
	ModelName   string     `json:"model_name"`
	TokenCount  int        `json:"token_count"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the entry has passed its expiry.
// Entries without an expiry never expire.
func (e *EmbeddingCacheEntry) IsExpired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}
