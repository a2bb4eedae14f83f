// ABOUTME: Processing-job persistence with lifecycle transitions
// ABOUTME: Jobs move pending → processing → completed | failed and record counts
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/portfolio-rag/internal/models"
)

// JobStore persists content processing jobs
type JobStore struct {
	db *DB
}

// NewJobStore creates a new JobStore
func NewJobStore(db *DB) *JobStore {
	return &JobStore{db: db}
}

// Create inserts a new job record
func (s *JobStore) Create(job *models.ProcessingJob) error {
	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = models.JobPending
	}

	_, err := s.db.Exec(`
		INSERT INTO processing_jobs (id, source_type, source_id, source_title, status,
			chunks_created, embeddings_generated, error_message, processing_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.JobID, string(job.SourceType), job.SourceID, nullString(job.SourceTitle),
		string(job.Status), job.ChunksCreated, job.EmbeddingsGenerated,
		nullString(job.ErrorMessage), job.ProcessingTime, job.CreatedAt, job.UpdatedAt)
	return err
}

// Update persists a job's current state
func (s *JobStore) Update(job *models.ProcessingJob) error {
	job.UpdatedAt = time.Now()
	res, err := s.db.Exec(`
		UPDATE processing_jobs
		SET status = ?, chunks_created = ?, embeddings_generated = ?,
			error_message = ?, processing_time = ?, updated_at = ?
		WHERE id = ?
	`, string(job.Status), job.ChunksCreated, job.EmbeddingsGenerated,
		nullString(job.ErrorMessage), job.ProcessingTime, job.UpdatedAt, job.JobID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("job %s not found", job.JobID)
	}
	return nil
}

// GetByID retrieves a job by ID, or nil when absent
func (s *JobStore) GetByID(jobID string) (*models.ProcessingJob, error) {
	var (
		job     models.ProcessingJob
		st      string
		status  string
		title   sql.NullString
		errMsg  sql.NullString
	)

	err := s.db.QueryRow(`
		SELECT id, source_type, source_id, source_title, status,
			chunks_created, embeddings_generated, error_message, processing_time, created_at, updated_at
		FROM processing_jobs
		WHERE id = ?`, jobID).Scan(&job.JobID, &st, &job.SourceID, &title, &status,
		&job.ChunksCreated, &job.EmbeddingsGenerated, &errMsg, &job.ProcessingTime,
		&job.CreatedAt, &job.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.SourceType = models.SourceType(st)
	job.Status = models.JobStatus(status)
	if title.Valid {
		job.SourceTitle = title.String
	}
	if errMsg.Valid {
		job.ErrorMessage = errMsg.String
	}
	return &job, nil
}

// CountSince returns how many jobs were created after the cutoff
func (s *JobStore) CountSince(since time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM processing_jobs WHERE created_at >= ?", since,
	).Scan(&n)
	return n, err
}
