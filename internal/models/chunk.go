// ABOUTME: Chunk represents a bounded segment of portfolio content with its embedding
// ABOUTME: Defines the source type enum covering every ingestable content kind
package models

import "time"

// SourceType identifies what kind of portfolio content a chunk came from
type SourceType string

const (
	SourceProfile    SourceType = "profile"
	SourceProject    SourceType = "project"
	SourceExperience SourceType = "experience"
	SourceSkills     SourceType = "skills"
	SourceEducation  SourceType = "education"
	SourceResume     SourceType = "resume"
	SourceBlog       SourceType = "blog"
	SourceCode       SourceType = "code"
)

// IsValid reports whether the source type is one of the known kinds
func (s SourceType) IsValid() bool {
	switch s {
	case SourceProfile, SourceProject, SourceExperience, SourceSkills,
		SourceEducation, SourceResume, SourceBlog, SourceCode:
		return true
	}
	return false
}

// Chunk is a stored segment of source text with its embedding vector.
// (SourceType, SourceID, ChunkIndex) uniquely orders a source's chunks.
// A chunk and its embedding are written atomically; an empty Embedding means
// the vector has not been generated yet and the chunk is invisible to search.
type Chunk struct {
	ChunkID     string            `json:"chunk_id"`
	Content     string            `json:"content"`
	Embedding   []float64         `json:"embedding,omitempty"`
	SourceType  SourceType        `json:"source_type"`
	SourceID    string            `json:"source_id"`
	SourceTitle string            `json:"source_title,omitempty"`
	ChunkIndex  int               `json:"chunk_index"`
	TokenCount  int               `json:"token_count"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ScoredChunk pairs a chunk with its similarity score for a query
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// ChunkFilter narrows chunk lookups by source constraints.
// Zero values mean "no constraint".
type ChunkFilter struct {
	SourceType SourceType `json:"source_type,omitempty"`
	SourceID   string     `json:"source_id,omitempty"`
}
