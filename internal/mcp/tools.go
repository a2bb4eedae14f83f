// ABOUTME: MCP tool definitions and registration for the portfolio RAG server
// ABOUTME: Exposes query, ingestion, cache management, and stats over stdio
package mcp

import (
	"github.com/harper/portfolio-rag/internal/rag"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, service *rag.Service, ingestor *rag.Ingestor) *Handlers {
	handlers := &Handlers{
		service:  service,
		ingestor: ingestor,
	}

	// 1. portfolio_query - Ask a question grounded in ingested content
	server.AddTool(mcp.Tool{
		Name:        "portfolio_query",
		Description: "Answer a natural-language question about the developer's portfolio, grounded in ingested content. Returns the answer with a confidence score and source chunk ids.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"context_type": map[string]interface{}{
					"type":        "string",
					"description": "Optional source type filter: profile, project, experience, skills, education, resume, blog, or code",
				},
				"source_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional source id filter, e.g. a specific project",
				},
				"max_chunks": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to ground the answer in (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"question"},
		},
	}, handlers.PortfolioQuery)

	// 2. ingest_content - Chunk, embed, and store one source
	server.AddTool(mcp.Tool{
		Name:        "ingest_content",
		Description: "Ingest portfolio content for one source: chunks the text, generates embeddings, and replaces any prior chunks for the same source. Idempotent per (source_type, source_id).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source_type": map[string]interface{}{
					"type":        "string",
					"description": "Content kind: profile, project, experience, skills, education, resume, blog, or code",
				},
				"source_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable identifier for the source",
				},
				"source_title": map[string]interface{}{
					"type":        "string",
					"description": "Optional human-readable title",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "The content to ingest",
				},
			},
			Required: []string{"source_type", "source_id", "text"},
		},
	}, handlers.IngestContent)

	// 3. clear_cache - Empty the embedding and/or query caches
	server.AddTool(mcp.Tool{
		Name:        "clear_cache",
		Description: "Clear cached data. Scope 'embeddings' drops cached vectors, 'queries' drops cached answers, 'all' drops both.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scope": map[string]interface{}{
					"type":        "string",
					"description": "What to clear: embeddings, queries, or all (default: all)",
					"default":     "all",
				},
			},
		},
	}, handlers.ClearCache)

	// 4. processing_stats - Chunk, query, and job statistics
	server.AddTool(mcp.Tool{
		Name:        "processing_stats",
		Description: "Get statistics about stored chunks, cached embeddings, and recent query and ingestion activity.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ProcessingStats)

	return handlers
}
