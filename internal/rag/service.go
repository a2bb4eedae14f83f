// ABOUTME: Query service: the cache-check → embed → retrieve → synthesize → score pipeline
// ABOUTME: Always produces a response; failures degrade to fallbacks, timeouts are flagged
package rag

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/portfolio-rag/internal/cache"
	"github.com/harper/portfolio-rag/internal/models"
	"github.com/harper/portfolio-rag/internal/storage/sqlite"
)

// Curated user-facing messages. Internal error detail never reaches callers.
const (
	fallbackNoContext       = "I couldn't find relevant information to answer your question."
	fallbackProcessingError = "I encountered an error while processing your question. Please try again."
	fallbackEmptyQuestion   = "Please ask a question about the portfolio."
	timeoutMessage          = "The request took too long to process. Please try again."
)

// Cache-clearing scopes accepted by ClearCache
const (
	ScopeEmbeddings = "embeddings"
	ScopeQueries    = "queries"
	ScopeAll        = "all"
)

// Retriever finds chunks relevant to a question
type Retriever interface {
	Search(ctx context.Context, queryText string, filter models.ChunkFilter, limit int) ([]models.ScoredChunk, error)
}

// AnswerGenerator produces a grounded answer from ranked chunks
type AnswerGenerator interface {
	Synthesize(ctx context.Context, question string, chunks []models.ScoredChunk) (*SynthesisResult, error)
}

// QueryLogger records completed queries for analytics
type QueryLogger interface {
	Append(entry *models.QueryLogEntry) error
}

// StatsSources are the read-side stores the stats surface aggregates over
type StatsSources struct {
	Chunks interface {
		Stats() (*sqlite.ChunkStats, error)
	}
	Queries interface {
		Stats(since time.Time) (*sqlite.QueryStats, error)
	}
	Jobs interface {
		CountSince(since time.Time) (int, error)
	}
	Embeddings interface {
		Count() (int, error)
	}
}

// Service runs the end-to-end query pipeline
type Service struct {
	retriever    Retriever
	synthesizer  AnswerGenerator
	queryCache   *cache.QueryCache
	vectorCache  *cache.VectorCache
	queryLog     QueryLogger
	stats        StatsSources
	maxChunks    int
	queryTimeout time.Duration
	maxTimeout   time.Duration
}

// ServiceConfig bundles the Service's collaborators and limits
type ServiceConfig struct {
	Retriever    Retriever
	Synthesizer  AnswerGenerator
	QueryCache   *cache.QueryCache
	VectorCache  *cache.VectorCache
	QueryLog     QueryLogger
	Stats        StatsSources
	MaxChunks    int
	QueryTimeout time.Duration
	MaxTimeout   time.Duration
}

// NewService creates a Service
func NewService(cfg ServiceConfig) *Service {
	if cfg.MaxChunks <= 0 {
		cfg.MaxChunks = 5
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 10 * time.Second
	}
	if cfg.MaxTimeout <= 0 {
		cfg.MaxTimeout = 30 * time.Second
	}
	return &Service{
		retriever:    cfg.Retriever,
		synthesizer:  cfg.Synthesizer,
		queryCache:   cfg.QueryCache,
		vectorCache:  cfg.VectorCache,
		queryLog:     cfg.QueryLog,
		stats:        cfg.Stats,
		maxChunks:    cfg.MaxChunks,
		queryTimeout: cfg.QueryTimeout,
		maxTimeout:   cfg.MaxTimeout,
	}
}

// Query answers a question from the ingested portfolio content. It always
// returns a response: failures after a cache miss degrade to a fallback
// answer with zero confidence, and a timed-out query is flagged Timeout and
// Retry so callers can tell it from a normal answer.
func (s *Service) Query(ctx context.Context, req models.QueryRequest) *models.QueryResponse {
	start := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return s.fallback(fallbackEmptyQuestion, req, start)
	}

	key := s.queryCache.Key(question, req.ContextType, req.SourceID)
	if cached, err := s.queryCache.Get(key); err == nil {
		cached.Cached = true
		cached.ResponseTime = time.Since(start).Seconds()
		return &cached
	}

	maxChunks := req.MaxChunks
	if maxChunks <= 0 {
		maxChunks = s.maxChunks
	}

	timeout := s.queryTimeout
	if timeout > s.maxTimeout {
		timeout = s.maxTimeout
	}
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	filter := models.ChunkFilter{SourceType: req.ContextType, SourceID: req.SourceID}
	scored, err := s.retriever.Search(qctx, question, filter, maxChunks)
	if err != nil {
		if qctx.Err() != nil {
			return s.timeoutResponse(req, start)
		}
		log.Printf("similarity search failed: %v", err)
		return s.fallback(fallbackProcessingError, req, start)
	}
	if len(scored) == 0 {
		resp := s.fallback(fallbackNoContext, req, start)
		s.logQuery(question, req, scored, resp)
		return resp
	}

	result, err := s.synthesizer.Synthesize(qctx, question, scored)
	if err != nil {
		// Synthesize only errors on context cancellation
		return s.timeoutResponse(req, start)
	}

	confidence := ScoreConfidence(result.Answer, result.TokensUsed, len(result.ChunksUsed), maxChunks)

	resp := &models.QueryResponse{
		Answer:          result.Answer,
		Confidence:      confidence,
		ResponseTime:    time.Since(start).Seconds(),
		ChunksUsed:      result.ChunksUsed,
		ChunksRetrieved: len(scored),
		TokensUsed:      result.TokensUsed,
		ContextType:     req.ContextType,
		SourceID:        req.SourceID,
		ModelUsed:       result.ModelUsed,
	}

	// The fallback answer would go stale the moment the upstream recovers;
	// only real answers are worth caching
	if result.Answer != FallbackAnswer {
		s.queryCache.Put(key, *resp)
	}

	s.logQuery(question, req, scored, resp)
	return resp
}

// fallback builds a degraded response with zero confidence
func (s *Service) fallback(message string, req models.QueryRequest, start time.Time) *models.QueryResponse {
	return &models.QueryResponse{
		Answer:       message,
		Confidence:   0.0,
		ResponseTime: time.Since(start).Seconds(),
		ContextType:  req.ContextType,
		SourceID:     req.SourceID,
		ModelUsed:    "fallback",
	}
}

// timeoutResponse builds the distinct timed-out response
func (s *Service) timeoutResponse(req models.QueryRequest, start time.Time) *models.QueryResponse {
	resp := s.fallback(timeoutMessage, req, start)
	resp.Timeout = true
	resp.Retry = true
	return resp
}

// logQuery appends the permanent audit record; a logging failure never
// affects the response
func (s *Service) logQuery(question string, req models.QueryRequest, scored []models.ScoredChunk, resp *models.QueryResponse) {
	if s.queryLog == nil {
		return
	}

	retrieved := make([]string, len(scored))
	scores := make([]float64, len(scored))
	for i, sc := range scored {
		retrieved[i] = sc.Chunk.ChunkID
		scores[i] = sc.Score
	}

	entry := &models.QueryLogEntry{
		QueryID:          "query-" + uuid.New().String(),
		QueryText:        question,
		ContextType:      req.ContextType,
		SourceID:         req.SourceID,
		ChunksRetrieved:  retrieved,
		ChunksUsed:       resp.ChunksUsed,
		SimilarityScores: scores,
		Answer:           resp.Answer,
		Confidence:       resp.Confidence,
		TokensUsed:       resp.TokensUsed,
		ProcessingTime:   resp.ResponseTime,
	}
	if err := s.queryLog.Append(entry); err != nil {
		log.Printf("query log append failed: %v", err)
	}
}

// ClearCache empties the named cache scope and returns the number of entries
// removed
func (s *Service) ClearCache(scope string) (int, error) {
	switch scope {
	case ScopeEmbeddings:
		return s.vectorCache.Clear()
	case ScopeQueries:
		return s.queryCache.Clear(), nil
	case ScopeAll:
		queries := s.queryCache.Clear()
		embeddings, err := s.vectorCache.Clear()
		return queries + embeddings, err
	default:
		return 0, &UnknownScopeError{Scope: scope}
	}
}

// PruneEmbeddingCache drops expired embedding-cache entries from both tiers.
// A positive olderThan additionally drops durable entries created before
// now-olderThan, even when they carry no expiry.
func (s *Service) PruneEmbeddingCache(olderThan time.Duration) (int, error) {
	pruned, err := s.vectorCache.Prune()
	if err != nil {
		return pruned, err
	}
	if olderThan > 0 {
		aged, err := s.vectorCache.PruneOlderThan(time.Now().Add(-olderThan))
		if err != nil {
			return pruned, err
		}
		pruned += aged
	}
	return pruned, nil
}

// UnknownScopeError reports an unrecognized cache scope
type UnknownScopeError struct {
	Scope string
}

func (e *UnknownScopeError) Error() string {
	return "unknown cache scope: " + e.Scope + " (want embeddings, queries, or all)"
}

// ServiceStats is the aggregated stats surface
type ServiceStats struct {
	Chunks           *sqlite.ChunkStats `json:"chunks"`
	RecentQueries    *sqlite.QueryStats `json:"recent_queries"`
	RecentJobs       int                `json:"recent_jobs"`
	CachedEmbeddings int                `json:"cached_embeddings"`
}

// Stats aggregates chunk, query, job, and cache counts over the last 24 hours
func (s *Service) Stats() (*ServiceStats, error) {
	stats := &ServiceStats{}
	since := time.Now().Add(-24 * time.Hour)

	if s.stats.Chunks != nil {
		chunks, err := s.stats.Chunks.Stats()
		if err != nil {
			return nil, err
		}
		stats.Chunks = chunks
	}
	if s.stats.Queries != nil {
		queries, err := s.stats.Queries.Stats(since)
		if err != nil {
			return nil, err
		}
		stats.RecentQueries = queries
	}
	if s.stats.Jobs != nil {
		jobs, err := s.stats.Jobs.CountSince(since)
		if err != nil {
			return nil, err
		}
		stats.RecentJobs = jobs
	}
	if s.stats.Embeddings != nil {
		count, err := s.stats.Embeddings.Count()
		if err != nil {
			return nil, err
		}
		stats.CachedEmbeddings = count
	}

	return stats, nil
}
