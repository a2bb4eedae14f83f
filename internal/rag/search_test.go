// ABOUTME: Tests for similarity search: cosine math, thresholding, ranking
// ABOUTME: Uses fake embedders and chunk listers; no network or database
package rag

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/harper/portfolio-rag/internal/llm"
	"github.com/harper/portfolio-rag/internal/models"
)

type fakeQueryEmbedder struct {
	vector []float64
	err    error
	calls  int
}

func (f *fakeQueryEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeChunkLister struct {
	chunks    []models.Chunk
	lastLimit int
	err       error
}

func (f *fakeChunkLister) ListActive(filter models.ChunkFilter, limit int) ([]models.Chunk, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

func chunkWithVector(id string, vector []float64, createdAt time.Time) models.Chunk {
	return models.Chunk{
		ChunkID:   id,
		Content:   "content " + id,
		Embedding: vector,
		IsActive:  true,
		CreatedAt: createdAt,
	}
}

func TestCosineSimilarity(t *testing.T) {
	v := []float64{1, 2, 3}
	neg := []float64{-1, -2, -3}
	zero := []float64{0, 0, 0}

	if got := cosineSimilarity(v, v); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("cos(v,v) = %v, want ~1.0", got)
	}
	if got := cosineSimilarity(v, neg); math.Abs(got+1.0) > 1e-9 {
		t.Errorf("cos(v,-v) = %v, want ~-1.0", got)
	}
	if got := cosineSimilarity(v, zero); got != 0 {
		t.Errorf("cos(v,0) = %v, want 0 without dividing by zero", got)
	}
	if got := cosineSimilarity(zero, zero); got != 0 {
		t.Errorf("cos(0,0) = %v, want 0", got)
	}
}

func TestSearchRankingAndThreshold(t *testing.T) {
	query := []float64{1, 0}
	now := time.Now()
	lister := &fakeChunkLister{chunks: []models.Chunk{
		chunkWithVector("exact", []float64{2, 0}, now),             // cos 1.0
		chunkWithVector("close", []float64{1, 0.3}, now),           // cos ~0.958
		chunkWithVector("orthogonal", []float64{0, 1}, now),        // cos 0, below threshold
		chunkWithVector("opposite", []float64{-1, 0}, now),         // cos -1, below threshold
		chunkWithVector("wrong-dim", []float64{1, 0, 0}, now),      // dropped silently
	}}

	searcher := NewSearcher(&fakeQueryEmbedder{vector: query}, lister, 0.7, 100, 3)
	results, err := searcher.Search(context.Background(), "question", models.ChunkFilter{}, 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results above threshold, got %d", len(results))
	}
	if results[0].Chunk.ChunkID != "exact" {
		t.Errorf("expected best match first, got %s", results[0].Chunk.ChunkID)
	}
	for _, r := range results {
		if r.Score < 0.7 {
			t.Errorf("chunk %s returned with score %v below threshold", r.Chunk.ChunkID, r.Score)
		}
	}
	if results[0].Score < results[1].Score {
		t.Error("results not sorted descending by score")
	}
}

func TestSearchTieBreakByRecency(t *testing.T) {
	query := []float64{1, 0}
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	lister := &fakeChunkLister{chunks: []models.Chunk{
		chunkWithVector("old", []float64{3, 0}, older),
		chunkWithVector("new", []float64{5, 0}, newer), // same cos 1.0
	}}

	searcher := NewSearcher(&fakeQueryEmbedder{vector: query}, lister, 0.7, 100, 3)
	results, err := searcher.Search(context.Background(), "question", models.ChunkFilter{}, 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.ChunkID != "new" {
		t.Errorf("expected newer chunk to win the tie, got %s", results[0].Chunk.ChunkID)
	}
}

func TestSearchOverfetch(t *testing.T) {
	lister := &fakeChunkLister{}
	searcher := NewSearcher(&fakeQueryEmbedder{vector: []float64{1}}, lister, 0.7, 100, 3)

	if _, err := searcher.Search(context.Background(), "q", models.ChunkFilter{}, 5); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if lister.lastLimit != 15 {
		t.Errorf("expected over-fetch limit 15, got %d", lister.lastLimit)
	}
}

func TestSearchLimitApplied(t *testing.T) {
	query := []float64{1, 0}
	var chunks []models.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, chunkWithVector(fmt.Sprintf("c%d", i), []float64{1, 0}, time.Now()))
	}
	lister := &fakeChunkLister{chunks: chunks}

	searcher := NewSearcher(&fakeQueryEmbedder{vector: query}, lister, 0.7, 100, 3)
	results, err := searcher.Search(context.Background(), "q", models.ChunkFilter{}, 3)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestSearchEmptyResultIsNotError(t *testing.T) {
	lister := &fakeChunkLister{}
	searcher := NewSearcher(&fakeQueryEmbedder{vector: []float64{1}}, lister, 0.7, 100, 3)

	results, err := searcher.Search(context.Background(), "q", models.ChunkFilter{}, 5)
	if err != nil {
		t.Fatalf("expected no error for empty store, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestSearchEmbeddingUnavailable(t *testing.T) {
	embedder := &fakeQueryEmbedder{err: errors.New("api down")}
	searcher := NewSearcher(embedder, &fakeChunkLister{}, 0.7, 100, 3)

	_, err := searcher.Search(context.Background(), "q", models.ChunkFilter{}, 5)
	if !errors.Is(err, llm.ErrEmbeddingUnavailable) {
		t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}

func TestSearchBatchingCoversAllCandidates(t *testing.T) {
	query := []float64{1, 0}
	var chunks []models.Chunk
	for i := 0; i < 250; i++ {
		chunks = append(chunks, chunkWithVector(fmt.Sprintf("c%d", i), []float64{1, 0}, time.Now()))
	}
	lister := &fakeChunkLister{chunks: chunks}

	// batch size 100 over 250 candidates: all must still be scored
	searcher := NewSearcher(&fakeQueryEmbedder{vector: query}, lister, 0.7, 100, 3)
	results, err := searcher.Search(context.Background(), "q", models.ChunkFilter{}, 250)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 250 {
		t.Errorf("expected all 250 candidates scored, got %d", len(results))
	}
}
