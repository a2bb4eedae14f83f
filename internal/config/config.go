// ABOUTME: Centralized configuration for the portfolio RAG backend
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the RAG pipeline
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	APITimeout     time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Chunking settings
	ChunkSize      int
	ChunkOverlap   int
	MaxInputTokens int

	// Search settings
	SimilarityThreshold float64
	MaxChunks           int
	BatchSize           int
	Overfetch           int
	VectorDimension     int

	// Synthesis settings
	MaxContextTokens int
	MaxAnswerTokens  int
	Temperature      float32

	// Cache settings
	EmbeddingCacheTTL time.Duration
	QueryCacheTTL     time.Duration

	// Query settings
	QueryTimeout    time.Duration
	MaxQueryTimeout time.Duration

	// Storage settings
	DBPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("PORTFOLIO_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("PORTFOLIO_EMBEDDING_MODEL", "text-embedding-3-small"),
		APITimeout:     getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),

		ChunkSize:      getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap:   getEnvInt("CHUNK_OVERLAP", 50),
		MaxInputTokens: getEnvInt("MAX_INPUT_TOKENS", 8192),

		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.7),
		MaxChunks:           getEnvInt("MAX_CHUNKS", 5),
		BatchSize:           getEnvInt("SEARCH_BATCH_SIZE", 100),
		Overfetch:           getEnvInt("SEARCH_OVERFETCH", 3),
		VectorDimension:     getEnvInt("VECTOR_DIMENSION", 1536),

		MaxContextTokens: getEnvInt("MAX_CONTEXT_TOKENS", 4000),
		MaxAnswerTokens:  getEnvInt("MAX_ANSWER_TOKENS", 500),
		Temperature:      float32(getEnvFloat("GENERATION_TEMPERATURE", 0.7)),

		EmbeddingCacheTTL: getEnvDuration("EMBEDDING_CACHE_TTL", 7*24*time.Hour),
		QueryCacheTTL:     getEnvDuration("QUERY_CACHE_TTL", time.Hour),

		QueryTimeout:    getEnvDuration("QUERY_TIMEOUT", 10*time.Second),
		MaxQueryTimeout: getEnvDuration("MAX_QUERY_TIMEOUT", 30*time.Second),

		DBPath: getEnv("PORTFOLIO_DB_PATH", ""),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be -1..1, got %f", c.SimilarityThreshold)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.Overfetch < 1 {
		return fmt.Errorf("SEARCH_OVERFETCH must be at least 1, got %d", c.Overfetch)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("SEARCH_BATCH_SIZE must be at least 1, got %d", c.BatchSize)
	}
	if c.QueryTimeout > c.MaxQueryTimeout {
		return fmt.Errorf("QUERY_TIMEOUT (%v) exceeds MAX_QUERY_TIMEOUT (%v)", c.QueryTimeout, c.MaxQueryTimeout)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
