// ABOUTME: Main entry point for the portfolio RAG MCP server with stdio transport
// ABOUTME: Wires storage, caches, the OpenAI client, and the query pipeline
package main

import (
	"log"
	"os"

	"github.com/harper/portfolio-rag/internal/cache"
	"github.com/harper/portfolio-rag/internal/chunker"
	"github.com/harper/portfolio-rag/internal/config"
	"github.com/harper/portfolio-rag/internal/llm"
	ragmcp "github.com/harper/portfolio-rag/internal/mcp"
	"github.com/harper/portfolio-rag/internal/rag"
	"github.com/harper/portfolio-rag/internal/storage/sqlite"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - queries and ingestion will not work")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	chunkStore := sqlite.NewChunkStore(db)
	embeddingStore := sqlite.NewEmbeddingCacheStore(db)
	queryLogStore := sqlite.NewQueryLogStore(db)
	jobStore := sqlite.NewJobStore(db)

	vectorCache := cache.NewVectorCache(embeddingStore, cfg.EmbeddingCacheTTL)
	queryCache := cache.NewQueryCache(cfg.QueryCacheTTL)

	client, err := llm.NewClient(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Timeout:        cfg.APITimeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	provider := rag.NewEmbeddingProvider(client, vectorCache, cfg.MaxInputTokens, cfg.EmbeddingCacheTTL)
	searcher := rag.NewSearcher(provider, chunkStore, cfg.SimilarityThreshold, cfg.BatchSize, cfg.Overfetch)
	synthesizer := rag.NewSynthesizer(client, cfg.MaxContextTokens, cfg.MaxAnswerTokens, cfg.Temperature)

	service := rag.NewService(rag.ServiceConfig{
		Retriever:   searcher,
		Synthesizer: synthesizer,
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
	})
	ingestor := rag.NewIngestor(chunker.New(cfg.ChunkSize, cfg.ChunkOverlap), provider, chunkStore, jobStore)

	server := mcpserver.NewMCPServer("Portfolio RAG", "0.1.0")
	ragmcp.RegisterTools(server, service, ingestor)

	log.Println("Portfolio RAG MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
