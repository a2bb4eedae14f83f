// ABOUTME: ProcessingJob tracks one content-ingestion run through its lifecycle
// ABOUTME: Status transitions pending → processing → completed | failed
package models

import "time"

// JobStatus is the lifecycle state of a processing job
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// IsValid reports whether the status is a known lifecycle state
func (s JobStatus) IsValid() bool {
	switch s {
	case JobPending, JobProcessing, JobCompleted, JobFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the job can no longer change state
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// ProcessingJob records the progress and outcome of ingesting one source
type ProcessingJob struct {
	JobID               string     `json:"job_id"`
	SourceType          SourceType `json:"source_type"`
	SourceID            string     `json:"source_id"`
	SourceTitle         string     `json:"source_title,omitempty"`
	Status              JobStatus  `json:"status"`
	ChunksCreated       int        `json:"chunks_created"`
	EmbeddingsGenerated int        `json:"embeddings_generated"`
	ErrorMessage        string     `json:"error_message,omitempty"`
	ProcessingTime      float64    `json:"processing_time_seconds"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
