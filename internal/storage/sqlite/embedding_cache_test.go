// ABOUTME: Tests for the durable embedding cache tier
// ABOUTME: Covers hash lookups, overwrite-on-conflict, expiry deletion, and clearing
package sqlite

import (
	"testing"
	"time"

	"github.com/harper/portfolio-rag/internal/models"
)

func TestEmbeddingCachePutGet(t *testing.T) {
	db := setupTestDB(t)
	store := NewEmbeddingCacheStore(db)

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	entry := &models.EmbeddingCacheEntry{
		TextHash:    "abc123",
		TextPreview: "what projects have you built",
		Vector:      []float64{0.1, 0.2, 0.3},
		ModelName:   "text-embedding-3-small",
		TokenCount:  5,
		ExpiresAt:   &expires,
	}

	if err := store.PutEntry(entry); err != nil {
		t.Fatalf("failed to put entry: %v", err)
	}

	got, err := store.GetEntry("abc123")
	if err != nil {
		t.Fatalf("failed to get entry: %v", err)
	}
	if got == nil {
		t.Fatal("expected entry, got nil")
	}
	if got.TextPreview != entry.TextPreview {
		t.Errorf("expected preview %q, got %q", entry.TextPreview, got.TextPreview)
	}
	if got.ModelName != entry.ModelName {
		t.Errorf("expected model %q, got %q", entry.ModelName, got.ModelName)
	}
	if len(got.Vector) != 3 || got.Vector[1] != 0.2 {
		t.Errorf("expected vector [0.1 0.2 0.3], got %v", got.Vector)
	}
	if got.ExpiresAt == nil {
		t.Fatal("expected expiry, got nil")
	}
}

func TestEmbeddingCacheGetMissing(t *testing.T) {
	db := setupTestDB(t)
	store := NewEmbeddingCacheStore(db)

	got, err := store.GetEntry("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing hash, got %+v", got)
	}
}

func TestEmbeddingCacheOverwrite(t *testing.T) {
	db := setupTestDB(t)
	store := NewEmbeddingCacheStore(db)

	first := &models.EmbeddingCacheEntry{TextHash: "h1", Vector: []float64{1}}
	if err := store.PutEntry(first); err != nil {
		t.Fatalf("failed to put first entry: %v", err)
	}

	second := &models.EmbeddingCacheEntry{TextHash: "h1", Vector: []float64{2, 3}}
	if err := store.PutEntry(second); err != nil {
		t.Fatalf("failed to put replacement entry: %v", err)
	}

	got, err := store.GetEntry("h1")
	if err != nil {
		t.Fatalf("failed to get entry: %v", err)
	}
	if len(got.Vector) != 2 || got.Vector[0] != 2 {
		t.Errorf("expected replacement vector [2 3], got %v", got.Vector)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 entry after overwrite, got %d", count)
	}
}

func TestEmbeddingCacheDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	store := NewEmbeddingCacheStore(db)

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	entries := []*models.EmbeddingCacheEntry{
		{TextHash: "expired", Vector: []float64{1}, ExpiresAt: &past},
		{TextHash: "fresh", Vector: []float64{2}, ExpiresAt: &future},
		{TextHash: "eternal", Vector: []float64{3}}, // no expiry
	}
	for _, e := range entries {
		if err := store.PutEntry(e); err != nil {
			t.Fatalf("failed to put entry %s: %v", e.TextHash, err)
		}
	}

	deleted, err := store.DeleteExpired(now)
	if err != nil {
		t.Fatalf("failed to delete expired: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	for _, hash := range []string{"fresh", "eternal"} {
		got, err := store.GetEntry(hash)
		if err != nil {
			t.Fatalf("failed to get %s: %v", hash, err)
		}
		if got == nil {
			t.Errorf("entry %s should survive expiry sweep", hash)
		}
	}
}

func TestEmbeddingCacheDeleteOlderThan(t *testing.T) {
	db := setupTestDB(t)
	store := NewEmbeddingCacheStore(db)

	now := time.Now().UTC()
	entries := []*models.EmbeddingCacheEntry{
		{TextHash: "ancient", Vector: []float64{1}, CreatedAt: now.Add(-72 * time.Hour)},
		{TextHash: "old", Vector: []float64{2}, CreatedAt: now.Add(-36 * time.Hour)},
		{TextHash: "recent", Vector: []float64{3}, CreatedAt: now},
	}
	for _, e := range entries {
		if err := store.PutEntry(e); err != nil {
			t.Fatalf("failed to put entry %s: %v", e.TextHash, err)
		}
	}

	deleted, err := store.DeleteOlderThan(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("failed to delete old entries: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	got, err := store.GetEntry("recent")
	if err != nil {
		t.Fatalf("failed to get recent entry: %v", err)
	}
	if got == nil {
		t.Error("entry within the cutoff should survive")
	}
	for _, hash := range []string{"ancient", "old"} {
		got, err := store.GetEntry(hash)
		if err != nil {
			t.Fatalf("failed to get %s: %v", hash, err)
		}
		if got != nil {
			t.Errorf("entry %s should be removed by age cleanup", hash)
		}
	}
}

func TestEmbeddingCacheClear(t *testing.T) {
	db := setupTestDB(t)
	store := NewEmbeddingCacheStore(db)

	for _, hash := range []string{"a", "b", "c"} {
		entry := &models.EmbeddingCacheEntry{TextHash: hash, Vector: []float64{1}}
		if err := store.PutEntry(entry); err != nil {
			t.Fatalf("failed to put entry: %v", err)
		}
	}

	cleared, err := store.Clear()
	if err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if cleared != 3 {
		t.Errorf("expected 3 cleared, got %d", cleared)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty cache, got %d entries", count)
	}
}
