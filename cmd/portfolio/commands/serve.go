// ABOUTME: CLI command to run the MCP server over stdio
// ABOUTME: Exposes query, ingestion, cache, and stats tools to MCP clients
package commands

import (
	"fmt"
	"log"

	ragmcp "github.com/harper/portfolio-rag/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Run the portfolio RAG service as an MCP server over stdio.

Exposes the portfolio_query, ingest_content, clear_cache, and
processing_stats tools to MCP clients.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := buildApp(true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	server := mcpserver.NewMCPServer("Portfolio RAG", versionInfo.Version)
	ragmcp.RegisterTools(server, a.service, a.ingestor)

	// stdout carries the protocol; everything human goes to stderr
	if !quiet {
		log.Println("Portfolio RAG MCP server starting on stdio...")
	}
	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
