// ABOUTME: Tests for environment-based configuration loading
// ABOUTME: Verifies defaults, overrides, and validation failures
package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want 500", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 50 {
		t.Errorf("ChunkOverlap = %d, want 50", cfg.ChunkOverlap)
	}
	if cfg.SimilarityThreshold != 0.7 {
		t.Errorf("SimilarityThreshold = %f, want 0.7", cfg.SimilarityThreshold)
	}
	if cfg.MaxChunks != 5 {
		t.Errorf("MaxChunks = %d, want 5", cfg.MaxChunks)
	}
	if cfg.Overfetch != 3 {
		t.Errorf("Overfetch = %d, want 3", cfg.Overfetch)
	}
	if cfg.BatchSize != 100 {
		t.Errorf("BatchSize = %d, want 100", cfg.BatchSize)
	}
	if cfg.EmbeddingCacheTTL != 7*24*time.Hour {
		t.Errorf("EmbeddingCacheTTL = %v, want 168h", cfg.EmbeddingCacheTTL)
	}
	if cfg.QueryCacheTTL != time.Hour {
		t.Errorf("QueryCacheTTL = %v, want 1h", cfg.QueryCacheTTL)
	}
	if cfg.QueryTimeout != 10*time.Second {
		t.Errorf("QueryTimeout = %v, want 10s", cfg.QueryTimeout)
	}
	if cfg.MaxContextTokens != 4000 {
		t.Errorf("MaxContextTokens = %d, want 4000", cfg.MaxContextTokens)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "300")
	t.Setenv("SIMILARITY_THRESHOLD", "0.5")
	t.Setenv("QUERY_CACHE_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 300 {
		t.Errorf("ChunkSize = %d, want 300", cfg.ChunkSize)
	}
	if cfg.SimilarityThreshold != 0.5 {
		t.Errorf("SimilarityThreshold = %f, want 0.5", cfg.SimilarityThreshold)
	}
	if cfg.QueryCacheTTL != 30*time.Minute {
		t.Errorf("QueryCacheTTL = %v, want 30m", cfg.QueryCacheTTL)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "threshold out of range", mutate: func(c *Config) { c.SimilarityThreshold = 1.5 }},
		{name: "retries out of range", mutate: func(c *Config) { c.MaxRetries = 20 }},
		{name: "overlap not below chunk size", mutate: func(c *Config) { c.ChunkOverlap = c.ChunkSize }},
		{name: "overfetch below one", mutate: func(c *Config) { c.Overfetch = 0 }},
		{name: "batch size below one", mutate: func(c *Config) { c.BatchSize = 0 }},
		{name: "timeout above hard max", mutate: func(c *Config) { c.QueryTimeout = c.MaxQueryTimeout + time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should have failed")
			}
		})
	}
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "many")
	t.Setenv("SIMILARITY_THRESHOLD", "high")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want default 500", cfg.ChunkSize)
	}
	if cfg.SimilarityThreshold != 0.7 {
		t.Errorf("SimilarityThreshold = %f, want default 0.7", cfg.SimilarityThreshold)
	}
}
