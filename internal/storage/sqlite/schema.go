// ABOUTME: SQLite database schema for the portfolio RAG backend
// ABOUTME: Creates chunk, embedding-cache, query-log, and job tables with indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Content chunks with their embedding vectors
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    embedding BLOB,
    source_type TEXT NOT NULL,
    source_id TEXT NOT NULL,
    source_title TEXT,
    chunk_index INTEGER NOT NULL DEFAULT 0,
    token_count INTEGER DEFAULT 0,
    metadata TEXT,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(source_type, source_id, chunk_index)
);

-- Durable embedding cache keyed by text hash
CREATE TABLE IF NOT EXISTS embedding_cache (
    text_hash TEXT PRIMARY KEY,
    text_preview TEXT,
    vector BLOB NOT NULL,
    model_name TEXT,
    token_count INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    expires_at DATETIME
);

-- Append-only query log for analytics
CREATE TABLE IF NOT EXISTS rag_queries (
    id TEXT PRIMARY KEY,
    query_text TEXT NOT NULL,
    context_type TEXT,
    source_id TEXT,
    chunks_retrieved TEXT,
    chunks_used TEXT,
    similarity_scores TEXT,
    answer TEXT,
    confidence REAL,
    tokens_used INTEGER DEFAULT 0,
    processing_time REAL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Content processing jobs
CREATE TABLE IF NOT EXISTS processing_jobs (
    id TEXT PRIMARY KEY,
    source_type TEXT NOT NULL,
    source_id TEXT NOT NULL,
    source_title TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    chunks_created INTEGER DEFAULT 0,
    embeddings_generated INTEGER DEFAULT 0,
    error_message TEXT,
    processing_time REAL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_chunks_source_type ON chunks(source_type);
CREATE INDEX IF NOT EXISTS idx_chunks_source_id ON chunks(source_id);
CREATE INDEX IF NOT EXISTS idx_chunks_active ON chunks(is_active);
CREATE INDEX IF NOT EXISTS idx_chunks_created ON chunks(created_at);
CREATE INDEX IF NOT EXISTS idx_embedding_cache_expires ON embedding_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_queries_created ON rag_queries(created_at);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON processing_jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_source ON processing_jobs(source_type, source_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
