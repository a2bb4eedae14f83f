// ABOUTME: Tests for content ingestion and embedding backfill
// ABOUTME: Fakes the chunk store and job recorder; uses the real chunker
package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/portfolio-rag/internal/chunker"
	"github.com/harper/portfolio-rag/internal/models"
)

type fakeChunkWriter struct {
	replaced   map[string][]models.Chunk
	missing    []models.Chunk
	embeddings map[string][]float64
	replaceErr error
}

func newFakeChunkWriter() *fakeChunkWriter {
	return &fakeChunkWriter{
		replaced:   make(map[string][]models.Chunk),
		embeddings: make(map[string][]float64),
	}
}

func (f *fakeChunkWriter) ReplaceSource(sourceType models.SourceType, sourceID string, chunks []models.Chunk) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced[string(sourceType)+"/"+sourceID] = chunks
	return nil
}

func (f *fakeChunkWriter) ListMissingEmbeddings(limit int) ([]models.Chunk, error) {
	return f.missing, nil
}

func (f *fakeChunkWriter) SetEmbedding(chunkID string, vector []float64) error {
	f.embeddings[chunkID] = vector
	return nil
}

type fakeJobRecorder struct {
	statuses []models.JobStatus
	last     *models.ProcessingJob
}

func (f *fakeJobRecorder) Create(job *models.ProcessingJob) error {
	f.statuses = append(f.statuses, job.Status)
	f.last = job
	return nil
}

func (f *fakeJobRecorder) Update(job *models.ProcessingJob) error {
	f.statuses = append(f.statuses, job.Status)
	f.last = job
	return nil
}

func newTestIngestor(embedder QueryEmbedder, chunks *fakeChunkWriter, jobs *fakeJobRecorder) *Ingestor {
	return NewIngestor(chunker.New(500, 50), embedder, chunks, jobs)
}

func TestIngestHappyPath(t *testing.T) {
	chunks := newFakeChunkWriter()
	jobs := &fakeJobRecorder{}
	ing := newTestIngestor(&fakeQueryEmbedder{vector: []float64{0.1, 0.2}}, chunks, jobs)

	result, err := ing.Ingest(context.Background(), IngestRequest{
		SourceType:  models.SourceProfile,
		SourceID:    "bio",
		SourceTitle: "About Me",
		Text:        "I build backend systems in Go.",
		Metadata:    map[string]string{"lang": "en"},
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if result.ChunksCreated != 1 {
		t.Errorf("expected 1 chunk, got %d", result.ChunksCreated)
	}
	if result.EmbeddingsGenerated != 1 {
		t.Errorf("expected 1 embedding, got %d", result.EmbeddingsGenerated)
	}
	if result.JobID == "" {
		t.Error("expected a job id")
	}

	stored := chunks.replaced["profile/bio"]
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored chunk, got %d", len(stored))
	}
	chunk := stored[0]
	if chunk.SourceTitle != "About Me" {
		t.Errorf("expected source title carried onto chunk, got %q", chunk.SourceTitle)
	}
	if chunk.Metadata["lang"] != "en" {
		t.Errorf("expected metadata carried onto chunk, got %v", chunk.Metadata)
	}
	if len(chunk.Embedding) == 0 {
		t.Error("expected chunk to carry its embedding")
	}
	if !chunk.IsActive {
		t.Error("expected new chunk to be active")
	}

	if jobs.last.Status != models.JobCompleted {
		t.Errorf("expected completed job, got %q", jobs.last.Status)
	}
	if jobs.last.ChunksCreated != 1 || jobs.last.EmbeddingsGenerated != 1 {
		t.Errorf("expected counts on job record, got %d/%d",
			jobs.last.ChunksCreated, jobs.last.EmbeddingsGenerated)
	}
}

func TestIngestLongTextMultipleChunks(t *testing.T) {
	chunks := newFakeChunkWriter()
	jobs := &fakeJobRecorder{}
	ing := newTestIngestor(&fakeQueryEmbedder{vector: []float64{0.1}}, chunks, jobs)

	// 700 tokens with a 500/50 window: two chunks
	var sb strings.Builder
	for i := 0; i < 700; i++ {
		sb.WriteString("word ")
	}

	result, err := ing.Ingest(context.Background(), IngestRequest{
		SourceType: models.SourceResume,
		SourceID:   "cv",
		Text:       sb.String(),
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if result.ChunksCreated != 2 {
		t.Errorf("expected 2 chunks for 700 tokens, got %d", result.ChunksCreated)
	}

	stored := chunks.replaced["resume/cv"]
	for i, c := range stored {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
	}
}

func TestIngestValidation(t *testing.T) {
	ing := newTestIngestor(&fakeQueryEmbedder{vector: []float64{0.1}}, newFakeChunkWriter(), &fakeJobRecorder{})

	tests := []struct {
		name string
		req  IngestRequest
	}{
		{"invalid source type", IngestRequest{SourceType: "banana", SourceID: "x", Text: "t"}},
		{"missing source id", IngestRequest{SourceType: models.SourceBlog, Text: "t"}},
		{"empty text", IngestRequest{SourceType: models.SourceBlog, SourceID: "x", Text: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ing.Ingest(context.Background(), tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestIngestEmbeddingFailureStoresChunkWithoutVector(t *testing.T) {
	chunks := newFakeChunkWriter()
	jobs := &fakeJobRecorder{}
	ing := newTestIngestor(&fakeQueryEmbedder{err: errors.New("api down")}, chunks, jobs)

	result, err := ing.Ingest(context.Background(), IngestRequest{
		SourceType: models.SourceProject,
		SourceID:   "p1",
		Text:       "some project description",
	})
	if err != nil {
		t.Fatalf("embedding failure must not fail the run: %v", err)
	}
	if result.ChunksCreated != 1 {
		t.Errorf("expected chunk still created, got %d", result.ChunksCreated)
	}
	if result.EmbeddingsGenerated != 0 {
		t.Errorf("expected 0 embeddings, got %d", result.EmbeddingsGenerated)
	}

	stored := chunks.replaced["project/p1"]
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored chunk, got %d", len(stored))
	}
	if len(stored[0].Embedding) != 0 {
		t.Error("failed embedding must leave the chunk without a vector")
	}
	if jobs.last.Status != models.JobCompleted {
		t.Errorf("expected completed job, got %q", jobs.last.Status)
	}
}

func TestIngestStorageFailureMarksJobFailed(t *testing.T) {
	chunks := newFakeChunkWriter()
	chunks.replaceErr = errors.New("disk full")
	jobs := &fakeJobRecorder{}
	ing := newTestIngestor(&fakeQueryEmbedder{vector: []float64{0.1}}, chunks, jobs)

	_, err := ing.Ingest(context.Background(), IngestRequest{
		SourceType: models.SourceProject,
		SourceID:   "p1",
		Text:       "text",
	})
	if err == nil {
		t.Fatal("expected error from storage failure")
	}
	if jobs.last.Status != models.JobFailed {
		t.Errorf("expected failed job, got %q", jobs.last.Status)
	}
	if jobs.last.ErrorMessage == "" {
		t.Error("expected error message recorded on job")
	}
}

func TestBackfillEmbeddings(t *testing.T) {
	chunks := newFakeChunkWriter()
	chunks.missing = []models.Chunk{
		{ChunkID: "c1", Content: "one"},
		{ChunkID: "c2", Content: "two"},
	}
	ing := newTestIngestor(&fakeQueryEmbedder{vector: []float64{0.1}}, chunks, &fakeJobRecorder{})

	filled, err := ing.BackfillEmbeddings(context.Background(), 10)
	if err != nil {
		t.Fatalf("backfill failed: %v", err)
	}
	if filled != 2 {
		t.Errorf("expected 2 chunks backfilled, got %d", filled)
	}
	if len(chunks.embeddings["c1"]) == 0 || len(chunks.embeddings["c2"]) == 0 {
		t.Error("expected embeddings written for both chunks")
	}
}

func TestBackfillSkipsFailures(t *testing.T) {
	chunks := newFakeChunkWriter()
	chunks.missing = []models.Chunk{
		{ChunkID: "c1", Content: "   "}, // cleans to empty, will fail
		{ChunkID: "c2", Content: "two"},
	}
	durableEmbedder := &fakeQueryEmbedderSelective{}
	ing := newTestIngestor(durableEmbedder, chunks, &fakeJobRecorder{})

	filled, err := ing.BackfillEmbeddings(context.Background(), 10)
	if err != nil {
		t.Fatalf("backfill failed: %v", err)
	}
	if filled != 1 {
		t.Errorf("expected 1 chunk backfilled, got %d", filled)
	}
}

// fakeQueryEmbedderSelective fails on whitespace-only input like the real provider
type fakeQueryEmbedderSelective struct{}

func (f *fakeQueryEmbedderSelective) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty input")
	}
	return []float64{0.1}, nil
}
