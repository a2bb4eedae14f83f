// ABOUTME: Append-only query log for analytics
// ABOUTME: Records retrieved/used chunk IDs, scores, answer, and timings per query
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/portfolio-rag/internal/models"
)

// QueryLogStore persists completed query records
type QueryLogStore struct {
	db *DB
}

// NewQueryLogStore creates a new QueryLogStore
func NewQueryLogStore(db *DB) *QueryLogStore {
	return &QueryLogStore{db: db}
}

// Append writes one completed query record. Records are never updated.
func (s *QueryLogStore) Append(entry *models.QueryLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	retrieved, err := json.Marshal(entry.ChunksRetrieved)
	if err != nil {
		return fmt.Errorf("marshal retrieved chunk ids: %w", err)
	}
	used, err := json.Marshal(entry.ChunksUsed)
	if err != nil {
		return fmt.Errorf("marshal used chunk ids: %w", err)
	}
	scores, err := json.Marshal(entry.SimilarityScores)
	if err != nil {
		return fmt.Errorf("marshal similarity scores: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO rag_queries (id, query_text, context_type, source_id, chunks_retrieved,
			chunks_used, similarity_scores, answer, confidence, tokens_used, processing_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.QueryID, entry.QueryText, nullString(string(entry.ContextType)), nullString(entry.SourceID),
		string(retrieved), string(used), string(scores), entry.Answer, entry.Confidence,
		entry.TokensUsed, entry.ProcessingTime, entry.CreatedAt)

	return err
}

// Recent returns the newest query records, at most limit
func (s *QueryLogStore) Recent(limit int) ([]models.QueryLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, query_text, context_type, source_id, chunks_retrieved,
			chunks_used, similarity_scores, answer, confidence, tokens_used, processing_time, created_at
		FROM rag_queries
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []models.QueryLogEntry
	for rows.Next() {
		var (
			entry       models.QueryLogEntry
			contextType sql.NullString
			sourceID    sql.NullString
			retrieved   string
			used        string
			scores      string
		)
		if err := rows.Scan(&entry.QueryID, &entry.QueryText, &contextType, &sourceID,
			&retrieved, &used, &scores, &entry.Answer, &entry.Confidence,
			&entry.TokensUsed, &entry.ProcessingTime, &entry.CreatedAt); err != nil {
			return nil, err
		}

		if contextType.Valid {
			entry.ContextType = models.SourceType(contextType.String)
		}
		if sourceID.Valid {
			entry.SourceID = sourceID.String
		}
		if err := json.Unmarshal([]byte(retrieved), &entry.ChunksRetrieved); err != nil {
			return nil, fmt.Errorf("unmarshal retrieved chunk ids: %w", err)
		}
		if err := json.Unmarshal([]byte(used), &entry.ChunksUsed); err != nil {
			return nil, fmt.Errorf("unmarshal used chunk ids: %w", err)
		}
		if err := json.Unmarshal([]byte(scores), &entry.SimilarityScores); err != nil {
			return nil, fmt.Errorf("unmarshal similarity scores: %w", err)
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// QueryStats aggregates recent query performance
type QueryStats struct {
	TotalQueries      int     `json:"total_queries"`
	AvgProcessingTime float64 `json:"avg_processing_time"`
	AvgConfidence     float64 `json:"avg_confidence"`
}

// Stats returns aggregates over queries newer than the cutoff
func (s *QueryLogStore) Stats(since time.Time) (*QueryStats, error) {
	stats := &QueryStats{}
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(AVG(processing_time), 0), COALESCE(AVG(confidence), 0)
		FROM rag_queries
		WHERE created_at >= ?`, since).Scan(&stats.TotalQueries, &stats.AvgProcessingTime, &stats.AvgConfidence)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
