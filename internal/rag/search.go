// ABOUTME: Cosine-similarity search over stored chunk embeddings
// ABOUTME: Over-fetches candidates, scores in batches, thresholds and ranks
package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/harper/portfolio-rag/internal/llm"
	"github.com/harper/portfolio-rag/internal/models"
)

// ChunkLister provides search candidates: active chunks with embeddings,
// newest first
type ChunkLister interface {
	ListActive(filter models.ChunkFilter, limit int) ([]models.Chunk, error)
}

// QueryEmbedder embeds the query text
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Searcher ranks stored chunks against a query by cosine similarity
type Searcher struct {
	embedder  QueryEmbedder
	chunks    ChunkLister
	threshold float64
	batchSize int
	overfetch int
}

// NewSearcher creates a Searcher. threshold discards weak matches, batchSize
// bounds per-batch similarity work, and overfetch multiplies the candidate
// pool so threshold filtering still leaves enough results.
func NewSearcher(embedder QueryEmbedder, chunks ChunkLister, threshold float64, batchSize, overfetch int) *Searcher {
	if batchSize <= 0 {
		batchSize = 100
	}
	if overfetch <= 0 {
		overfetch = 3
	}
	return &Searcher{
		embedder:  embedder,
		chunks:    chunks,
		threshold: threshold,
		batchSize: batchSize,
		overfetch: overfetch,
	}
}

// Search returns chunks relevant to queryText, best first, at most limit.
// An empty result is a valid "nothing relevant" signal, not an error. Fails
// with ErrEmbeddingUnavailable when the query itself cannot be embedded.
func (s *Searcher) Search(ctx context.Context, queryText string, filter models.ChunkFilter, limit int) ([]models.ScoredChunk, error) {
	queryVector, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", llm.ErrEmbeddingUnavailable, err)
	}
	if len(queryVector) == 0 {
		return nil, llm.ErrEmbeddingUnavailable
	}

	candidates, err := s.chunks.ListActive(filter, limit*s.overfetch)
	if err != nil {
		return nil, fmt.Errorf("list candidate chunks: %w", err)
	}

	var scored []models.ScoredChunk
	for start := 0; start < len(candidates); start += s.batchSize {
		end := min(start+s.batchSize, len(candidates))
		scored = append(scored, s.scoreBatch(queryVector, candidates[start:end])...)
	}

	// Descending by score; more recent chunk wins a tie
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.CreatedAt.After(scored[j].Chunk.CreatedAt)
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// scoreBatch computes similarities for one batch of candidates, keeping only
// those at or above the threshold. Chunks whose vector dimension does not
// match the query are dropped silently; stale dimensions are expected during
// embedding-model migrations.
func (s *Searcher) scoreBatch(queryVector []float64, batch []models.Chunk) []models.ScoredChunk {
	var scored []models.ScoredChunk
	for _, chunk := range batch {
		if len(chunk.Embedding) != len(queryVector) {
			continue
		}
		score := cosineSimilarity(queryVector, chunk.Embedding)
		if score < s.threshold {
			continue
		}
		scored = append(scored, models.ScoredChunk{Chunk: chunk, Score: score})
	}
	return scored
}

// cosineSimilarity returns dot(a,b)/(|a||b|), or 0 when either vector has
// zero norm. Assumes equal lengths; callers check dimensions first.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
