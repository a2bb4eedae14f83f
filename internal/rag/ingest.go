// ABOUTME: Content ingestion: chunk, embed, and atomically replace a source's chunks
// ABOUTME: Tracks each run as a processing job; re-ingesting a source never duplicates
package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/portfolio-rag/internal/chunker"
	"github.com/harper/portfolio-rag/internal/models"
)

// ChunkWriter is the ingestion-side chunk store surface
type ChunkWriter interface {
	ReplaceSource(sourceType models.SourceType, sourceID string, chunks []models.Chunk) error
	ListMissingEmbeddings(limit int) ([]models.Chunk, error)
	SetEmbedding(chunkID string, vector []float64) error
}

// JobRecorder tracks ingestion job lifecycles
type JobRecorder interface {
	Create(job *models.ProcessingJob) error
	Update(job *models.ProcessingJob) error
}

// IngestRequest describes one source to ingest
type IngestRequest struct {
	SourceType  models.SourceType
	SourceID    string
	SourceTitle string
	Text        string
	Metadata    map[string]string
}

// IngestResult reports what an ingestion run produced
type IngestResult struct {
	JobID               string `json:"job_id"`
	ChunksCreated       int    `json:"chunks_created"`
	EmbeddingsGenerated int    `json:"embeddings_generated"`
}

// Ingestor processes content into searchable chunks
type Ingestor struct {
	chunker  *chunker.Chunker
	embedder QueryEmbedder
	chunks   ChunkWriter
	jobs     JobRecorder
}

// NewIngestor creates an Ingestor
func NewIngestor(ch *chunker.Chunker, embedder QueryEmbedder, chunks ChunkWriter, jobs JobRecorder) *Ingestor {
	return &Ingestor{
		chunker:  ch,
		embedder: embedder,
		chunks:   chunks,
		jobs:     jobs,
	}
}

// Ingest chunks and embeds text for one source, replacing any chunks from a
// prior ingestion of the same (sourceType, sourceID). A chunk whose embedding
// fails is stored without one (invisible to search until backfilled) rather
// than failing the run. The outcome is recorded on a processing job either way.
func (ing *Ingestor) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	if !req.SourceType.IsValid() {
		return nil, fmt.Errorf("invalid source type %q", req.SourceType)
	}
	if strings.TrimSpace(req.SourceID) == "" {
		return nil, fmt.Errorf("source id is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text is empty")
	}

	job := &models.ProcessingJob{
		JobID:       "job-" + uuid.New().String(),
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		SourceTitle: req.SourceTitle,
		Status:      models.JobPending,
	}
	if err := ing.jobs.Create(job); err != nil {
		return nil, fmt.Errorf("create processing job: %w", err)
	}

	start := time.Now()
	job.Status = models.JobProcessing
	if err := ing.jobs.Update(job); err != nil {
		log.Printf("failed to mark job %s processing: %v", job.JobID, err)
	}

	segments := ing.chunker.Chunk(req.Text)
	chunks := make([]models.Chunk, 0, len(segments))
	embedded := 0

	for _, segment := range segments {
		chunk := models.Chunk{
			ChunkID:     "chunk-" + uuid.New().String(),
			Content:     segment.Content,
			SourceType:  req.SourceType,
			SourceID:    req.SourceID,
			SourceTitle: req.SourceTitle,
			ChunkIndex:  segment.Index,
			TokenCount:  segment.TokenCount,
			Metadata:    req.Metadata,
			IsActive:    true,
		}

		vector, err := ing.embedder.Embed(ctx, segment.Content)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ing.fail(job, start, fmt.Errorf("ingestion cancelled: %w", ctx.Err()))
			}
			log.Printf("embedding chunk %d of %s/%s failed: %v",
				segment.Index, req.SourceType, req.SourceID, err)
		} else {
			chunk.Embedding = vector
			embedded++
		}

		chunks = append(chunks, chunk)
	}

	if err := ing.chunks.ReplaceSource(req.SourceType, req.SourceID, chunks); err != nil {
		return nil, ing.fail(job, start, fmt.Errorf("store chunks: %w", err))
	}

	job.Status = models.JobCompleted
	job.ChunksCreated = len(chunks)
	job.EmbeddingsGenerated = embedded
	job.ProcessingTime = time.Since(start).Seconds()
	if err := ing.jobs.Update(job); err != nil {
		log.Printf("failed to mark job %s completed: %v", job.JobID, err)
	}

	return &IngestResult{
		JobID:               job.JobID,
		ChunksCreated:       len(chunks),
		EmbeddingsGenerated: embedded,
	}, nil
}

// fail records the error on the job and passes it through
func (ing *Ingestor) fail(job *models.ProcessingJob, start time.Time, err error) error {
	job.Status = models.JobFailed
	job.ErrorMessage = err.Error()
	job.ProcessingTime = time.Since(start).Seconds()
	if updateErr := ing.jobs.Update(job); updateErr != nil {
		log.Printf("failed to mark job %s failed: %v", job.JobID, updateErr)
	}
	return err
}

// BackfillEmbeddings embeds chunks stored without a vector, up to limit.
// Individual failures are skipped; returns how many chunks gained embeddings.
func (ing *Ingestor) BackfillEmbeddings(ctx context.Context, limit int) (int, error) {
	missing, err := ing.chunks.ListMissingEmbeddings(limit)
	if err != nil {
		return 0, fmt.Errorf("list chunks missing embeddings: %w", err)
	}

	filled := 0
	for _, chunk := range missing {
		vector, err := ing.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			if ctx.Err() != nil {
				return filled, ctx.Err()
			}
			log.Printf("backfill embedding for chunk %s failed: %v", chunk.ChunkID, err)
			continue
		}
		if err := ing.chunks.SetEmbedding(chunk.ChunkID, vector); err != nil {
			log.Printf("backfill write for chunk %s failed: %v", chunk.ChunkID, err)
			continue
		}
		filled++
	}
	return filled, nil
}
