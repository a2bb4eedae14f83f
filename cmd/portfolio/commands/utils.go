// ABOUTME: Shared CLI wiring: builds the full service stack from configuration
// ABOUTME: Also holds small formatting helpers used across subcommands
package commands

import (
	"fmt"

	"github.com/harper/portfolio-rag/internal/cache"
	"github.com/harper/portfolio-rag/internal/chunker"
	"github.com/harper/portfolio-rag/internal/config"
	"github.com/harper/portfolio-rag/internal/llm"
	"github.com/harper/portfolio-rag/internal/rag"
	"github.com/harper/portfolio-rag/internal/storage/sqlite"
	"github.com/joho/godotenv"
)

// app is the fully wired service stack behind every subcommand
type app struct {
	cfg      *config.Config
	db       *sqlite.DB
	service  *rag.Service
	ingestor *rag.Ingestor
}

// Close releases the app's resources
func (a *app) Close() error {
	return a.db.Close()
}

// buildApp loads configuration, opens storage, and wires the pipeline.
// requireLLM controls whether a missing OpenAI key is fatal: cache and stats
// commands work without one, query and ingest do not.
func buildApp(requireLLM bool) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	chunkStore := sqlite.NewChunkStore(db)
	embeddingStore := sqlite.NewEmbeddingCacheStore(db)
	queryLogStore := sqlite.NewQueryLogStore(db)
	jobStore := sqlite.NewJobStore(db)

	vectorCache := cache.NewVectorCache(embeddingStore, cfg.EmbeddingCacheTTL)
	queryCache := cache.NewQueryCache(cfg.QueryCacheTTL)

	serviceCfg := rag.ServiceConfig{
		QueryCache:  queryCache,
		VectorCache: vectorCache,
		QueryLog:    queryLogStore,
		Stats: rag.StatsSources{
			Chunks:     chunkStore,
			Queries:    queryLogStore,
			Jobs:       jobStore,
			Embeddings: embeddingStore,
		},
		MaxChunks:    cfg.MaxChunks,
		QueryTimeout: cfg.QueryTimeout,
		MaxTimeout:   cfg.MaxQueryTimeout,
	}

	a := &app{cfg: cfg, db: db}

	client, err := llm.NewClient(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Timeout:        cfg.APITimeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		if requireLLM {
			_ = db.Close()
			return nil, fmt.Errorf("OPENAI_API_KEY is not set: %w", err)
		}
	} else {
		provider := rag.NewEmbeddingProvider(client, vectorCache, cfg.MaxInputTokens, cfg.EmbeddingCacheTTL)
		serviceCfg.Retriever = rag.NewSearcher(provider, chunkStore, cfg.SimilarityThreshold, cfg.BatchSize, cfg.Overfetch)
		serviceCfg.Synthesizer = rag.NewSynthesizer(client, cfg.MaxContextTokens, cfg.MaxAnswerTokens, cfg.Temperature)
		a.ingestor = rag.NewIngestor(chunker.New(cfg.ChunkSize, cfg.ChunkOverlap), provider, chunkStore, jobStore)
	}

	a.service = rag.NewService(serviceCfg)
	return a, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
