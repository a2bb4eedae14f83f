// ABOUTME: EmbeddingProvider turns text into vectors, cache-first
// ABOUTME: Cleans and truncates input, consults the two-tier cache before calling OpenAI
package rag

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harper/portfolio-rag/internal/cache"
	"github.com/harper/portfolio-rag/internal/llm"
	"github.com/harper/portfolio-rag/internal/models"
	"github.com/harper/portfolio-rag/internal/tokenizer"
)

const previewLength = 100

// Embedder is the upstream embedding API surface the provider depends on
type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float64, error)
	EmbeddingModel() string
}

// EmbeddingProvider generates embeddings with caching. Every distinct text is
// embedded upstream at most once while its cache entry lives.
type EmbeddingProvider struct {
	embedder       Embedder
	cache          *cache.VectorCache
	tok            *tokenizer.Tokenizer
	maxInputTokens int
	cacheTTL       time.Duration
	now            func() time.Time
}

// NewEmbeddingProvider creates an EmbeddingProvider. cacheTTL sets the
// durable-tier expiry on new entries; zero means entries never expire.
func NewEmbeddingProvider(embedder Embedder, vectorCache *cache.VectorCache, maxInputTokens int, cacheTTL time.Duration) *EmbeddingProvider {
	if maxInputTokens <= 0 {
		maxInputTokens = 8192
	}
	return &EmbeddingProvider{
		embedder:       embedder,
		cache:          vectorCache,
		tok:            tokenizer.New(),
		maxInputTokens: maxInputTokens,
		cacheTTL:       cacheTTL,
		now:            time.Now,
	}
}

// clean normalizes whitespace and truncates to the model's input window
func (p *EmbeddingProvider) clean(text string) string {
	return p.tok.Truncate(text, p.maxInputTokens)
}

// Embed returns the embedding vector for text, from cache when possible.
// Fails with ErrEmptyInput when the cleaned text is empty and ErrUpstream
// when the embedding API cannot produce a vector.
func (p *EmbeddingProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	clean := p.clean(text)
	if clean == "" {
		return nil, llm.ErrEmptyInput
	}

	textHash := cache.HashText(clean)
	if vector, err := p.cache.Get(textHash); err == nil {
		return vector, nil
	} else if !cache.IsMiss(err) {
		// Cache infrastructure failure: embed anyway, the upstream call
		// is the thing we cannot do without
		log.Printf("embedding cache lookup failed: %v", err)
	}

	vector, err := p.embedder.CreateEmbedding(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	preview := clean
	if len(preview) > previewLength {
		preview = preview[:previewLength]
	}
	entry := &models.EmbeddingCacheEntry{
		TextHash:    textHash,
		TextPreview: preview,
		Vector:      vector,
		ModelName:   p.embedder.EmbeddingModel(),
		TokenCount:  p.tok.Count(clean),
		CreatedAt:   p.now(),
	}
	if p.cacheTTL > 0 {
		expires := p.now().Add(p.cacheTTL)
		entry.ExpiresAt = &expires
	}
	if err := p.cache.Put(entry); err != nil {
		// Losing a cache write costs a future API call, not correctness
		log.Printf("embedding cache write failed: %v", err)
	}

	return vector, nil
}

// EmbedBatch embeds texts sequentially. An individual failure yields an empty
// vector in that position rather than aborting the batch; callers can detect
// the gap by length and retry later.
func (p *EmbeddingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vector, err := p.Embed(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return vectors, ctx.Err()
			}
			log.Printf("batch embedding item %d failed: %v", i, err)
			vectors[i] = []float64{}
			continue
		}
		vectors[i] = vector
	}
	return vectors, nil
}
