// ABOUTME: Chunk persistence: atomic upserts, idempotent source replacement
// ABOUTME: Active-chunk listing filters out missing embeddings defensively
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/portfolio-rag/internal/models"
)

// ChunkStore handles chunk persistence
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// Upsert writes a chunk and its embedding atomically. The (source_type,
// source_id, chunk_index) slot is replaced if it already exists.
func (s *ChunkStore) Upsert(chunk *models.Chunk) error {
	metadata, err := marshalMetadata(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("marshal chunk metadata: %w", err)
	}

	now := time.Now()
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = now
	}
	chunk.UpdatedAt = now

	_, err = s.db.Exec(`
		INSERT INTO chunks (id, content, embedding, source_type, source_id, source_title,
			chunk_index, token_count, metadata, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_type, source_id, chunk_index) DO UPDATE SET
			content = excluded.content,
			embedding = excluded.embedding,
			source_title = excluded.source_title,
			token_count = excluded.token_count,
			metadata = excluded.metadata,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`, chunk.ChunkID, chunk.Content, vectorToBlob(chunk.Embedding), string(chunk.SourceType),
		chunk.SourceID, nullString(chunk.SourceTitle), chunk.ChunkIndex, chunk.TokenCount,
		metadata, boolToInt(chunk.IsActive), chunk.CreatedAt, chunk.UpdatedAt)

	return err
}

// ReplaceSource atomically replaces all chunks for a (sourceType, sourceID)
// pair with the given set. Re-ingesting a source never duplicates chunks.
func (s *ChunkStore) ReplaceSource(sourceType models.SourceType, sourceID string, chunks []models.Chunk) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		"DELETE FROM chunks WHERE source_type = ? AND source_id = ?",
		string(sourceType), sourceID,
	); err != nil {
		return fmt.Errorf("delete prior chunks: %w", err)
	}

	now := time.Now()
	for i := range chunks {
		chunk := &chunks[i]
		metadata, err := marshalMetadata(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshal chunk metadata: %w", err)
		}
		if chunk.CreatedAt.IsZero() {
			chunk.CreatedAt = now
		}
		chunk.UpdatedAt = now

		if _, err := tx.Exec(`
			INSERT INTO chunks (id, content, embedding, source_type, source_id, source_title,
				chunk_index, token_count, metadata, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, chunk.ChunkID, chunk.Content, vectorToBlob(chunk.Embedding), string(chunk.SourceType),
			chunk.SourceID, nullString(chunk.SourceTitle), chunk.ChunkIndex, chunk.TokenCount,
			metadata, boolToInt(chunk.IsActive), chunk.CreatedAt, chunk.UpdatedAt); err != nil {
			return fmt.Errorf("insert chunk %d: %w", chunk.ChunkIndex, err)
		}
	}

	return tx.Commit()
}

// ListActive returns active chunks with non-empty embeddings matching the
// filter, newest first, at most limit rows. Embeddings may be written after
// chunk creation, so the non-empty check here is load-bearing, not cosmetic.
func (s *ChunkStore) ListActive(filter models.ChunkFilter, limit int) ([]models.Chunk, error) {
	query := `
		SELECT id, content, embedding, source_type, source_id, source_title,
			chunk_index, token_count, metadata, is_active, created_at, updated_at
		FROM chunks
		WHERE is_active = 1 AND embedding IS NOT NULL AND length(embedding) > 0`
	args := []interface{}{}

	if filter.SourceType != "" {
		query += " AND source_type = ?"
		args = append(args, string(filter.SourceType))
	}
	if filter.SourceID != "" {
		query += " AND source_id = ?"
		args = append(args, filter.SourceID)
	}

	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanChunks(rows)
}

// ListMissingEmbeddings returns active chunks whose embedding was never
// generated, oldest first, for backfill runs.
func (s *ChunkStore) ListMissingEmbeddings(limit int) ([]models.Chunk, error) {
	query := `
		SELECT id, content, embedding, source_type, source_id, source_title,
			chunk_index, token_count, metadata, is_active, created_at, updated_at
		FROM chunks
		WHERE is_active = 1 AND (embedding IS NULL OR length(embedding) = 0)
		ORDER BY created_at ASC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanChunks(rows)
}

// SetEmbedding attaches an embedding vector to an existing chunk
func (s *ChunkStore) SetEmbedding(chunkID string, vector []float64) error {
	res, err := s.db.Exec(
		"UPDATE chunks SET embedding = ?, updated_at = ? WHERE id = ?",
		vectorToBlob(vector), time.Now(), chunkID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("chunk %s not found", chunkID)
	}
	return nil
}

// SetActive toggles a chunk's visibility to search
func (s *ChunkStore) SetActive(chunkID string, active bool) error {
	_, err := s.db.Exec(
		"UPDATE chunks SET is_active = ?, updated_at = ? WHERE id = ?",
		boolToInt(active), time.Now(), chunkID,
	)
	return err
}

// GetByID retrieves a chunk by its ID, or nil when absent
func (s *ChunkStore) GetByID(chunkID string) (*models.Chunk, error) {
	rows, err := s.db.Query(`
		SELECT id, content, embedding, source_type, source_id, source_title,
			chunk_index, token_count, metadata, is_active, created_at, updated_at
		FROM chunks WHERE id = ?`, chunkID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	chunks, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}
	return &chunks[0], nil
}

// ChunkStats summarizes stored chunks for the stats surface
type ChunkStats struct {
	Total          int                       `json:"total"`
	Active         int                       `json:"active"`
	WithEmbeddings int                       `json:"with_embeddings"`
	BySourceType   map[models.SourceType]int `json:"by_source_type"`
}

// Stats returns chunk counts overall, active, embedded, and per source type
func (s *ChunkStore) Stats() (*ChunkStats, error) {
	stats := &ChunkStats{BySourceType: make(map[models.SourceType]int)}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(is_active), 0),
			COALESCE(SUM(CASE WHEN embedding IS NOT NULL AND length(embedding) > 0 THEN 1 ELSE 0 END), 0)
		FROM chunks`).Scan(&stats.Total, &stats.Active, &stats.WithEmbeddings)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT source_type, COUNT(*) FROM chunks GROUP BY source_type")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var st string
		var count int
		if err := rows.Scan(&st, &count); err != nil {
			return nil, err
		}
		stats.BySourceType[models.SourceType(st)] = count
	}
	return stats, rows.Err()
}

// scanChunks scans rows into chunks
func scanChunks(rows *sql.Rows) ([]models.Chunk, error) {
	var chunks []models.Chunk

	for rows.Next() {
		var (
			chunk    models.Chunk
			blob     []byte
			title    sql.NullString
			metadata sql.NullString
			active   int
			st       string
		)

		if err := rows.Scan(&chunk.ChunkID, &chunk.Content, &blob, &st, &chunk.SourceID,
			&title, &chunk.ChunkIndex, &chunk.TokenCount, &metadata, &active,
			&chunk.CreatedAt, &chunk.UpdatedAt); err != nil {
			return nil, err
		}

		chunk.SourceType = models.SourceType(st)
		chunk.Embedding = blobToVector(blob)
		chunk.IsActive = active != 0
		if title.Valid {
			chunk.SourceTitle = title.String
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal chunk metadata: %w", err)
			}
		}

		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

func marshalMetadata(metadata map[string]string) (sql.NullString, error) {
	if len(metadata) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
