// ABOUTME: MCP tool handler implementations for the portfolio RAG server
// ABOUTME: Validates arguments, delegates to the query service and ingestor
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/portfolio-rag/internal/models"
	"github.com/harper/portfolio-rag/internal/rag"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	service  *rag.Service
	ingestor *rag.Ingestor
}

// PortfolioQuery handles the portfolio_query tool
func (h *Handlers) PortfolioQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	contextType := models.SourceType(request.GetString("context_type", ""))
	if contextType != "" && !contextType.IsValid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown context_type %q", contextType)), nil
	}

	req := models.QueryRequest{
		Question:    question,
		ContextType: contextType,
		SourceID:    request.GetString("source_id", ""),
		MaxChunks:   request.GetInt("max_chunks", 0),
	}

	// Query never fails outright; degraded results carry their own flags
	response := h.service.Query(ctx, req)

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// IngestContent handles the ingest_content tool
func (h *Handlers) IngestContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceType, err := request.RequireString("source_type")
	if err != nil {
		return mcp.NewToolResultError("source_type argument is required and must be a string"), nil
	}
	sourceID, err := request.RequireString("source_id")
	if err != nil {
		return mcp.NewToolResultError("source_id argument is required and must be a string"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	result, err := h.ingestor.Ingest(ctx, rag.IngestRequest{
		SourceType:  models.SourceType(sourceType),
		SourceID:    sourceID,
		SourceTitle: request.GetString("source_title", ""),
		Text:        text,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ClearCache handles the clear_cache tool
func (h *Handlers) ClearCache(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := request.GetString("scope", rag.ScopeAll)

	cleared, err := h.service.ClearCache(scope)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := map[string]interface{}{
		"scope":   scope,
		"cleared": cleared,
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ProcessingStats handles the processing_stats tool
func (h *Handlers) ProcessingStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.service.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to gather stats: %v", err)), nil
	}

	responseJSON, err := json.Marshal(stats)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
