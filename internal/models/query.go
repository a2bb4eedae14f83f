// ABOUTME: Query request/response types and the append-only query log record
// ABOUTME: QueryResponse carries answer, confidence, sources, and timing metadata
package models

import "time"

// QueryRequest is a question against the ingested portfolio content
type QueryRequest struct {
	Question    string     `json:"question"`
	ContextType SourceType `json:"context_type,omitempty"`
	SourceID    string     `json:"source_id,omitempty"`
	MaxChunks   int        `json:"max_chunks,omitempty"`
}

// QueryResponse is the full result of a query, cached or freshly generated.
// Timeout+Retry distinguish a timed-out query from a normal answer.
type QueryResponse struct {
	Answer          string     `json:"answer"`
	Confidence      float64    `json:"confidence"`
	ResponseTime    float64    `json:"response_time_seconds"`
	ChunksUsed      []string   `json:"chunks_used"`
	ChunksRetrieved int        `json:"chunks_retrieved"`
	TokensUsed      int        `json:"tokens_used"`
	ContextType     SourceType `json:"context_type,omitempty"`
	SourceID        string     `json:"source_id,omitempty"`
	ModelUsed       string     `json:"model_used"`
	Cached          bool       `json:"cached"`
	Timeout         bool       `json:"timeout,omitempty"`
	Retry           bool       `json:"retry,omitempty"`
}

// QueryLogEntry is the permanent audit record of one completed query.
// Append-only; never mutated after creation.
type QueryLogEntry struct {
	QueryID          string     `json:"query_id"`
	QueryText        string     `json:"query_text"`
	ContextType      SourceType `json:"context_type,omitempty"`
	SourceID         string     `json:"source_id,omitempty"`
	ChunksRetrieved  []string   `json:"chunks_retrieved"`
	ChunksUsed       []string   `json:"chunks_used"`
	SimilarityScores []float64  `json:"similarity_scores"`
	Answer           string     `json:"answer"`
	Confidence       float64    `json:"confidence"`
	TokensUsed       int        `json:"tokens_used"`
	ProcessingTime   float64    `json:"processing_time_seconds"`
	CreatedAt        time.Time  `json:"created_at"`
}
