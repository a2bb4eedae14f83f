// ABOUTME: CLI command to ask a question against ingested portfolio content
// ABOUTME: Supports source-type/source-id filters and text or JSON output
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/harper/portfolio-rag/internal/models"
	"github.com/spf13/cobra"
)

var (
	queryContextType string
	querySourceID    string
	queryMaxChunks   int
)

// NewQueryCmd creates the query command
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a question about the portfolio",
		Long: `Ask a natural-language question answered from ingested portfolio content.

The question is embedded, the most similar chunks are retrieved, and an
answer grounded in those chunks is generated with a confidence score.

Examples:
  portfolio query "What languages does the developer use?"
  portfolio query --type skills "What frameworks are listed?"
  portfolio query --format json "Describe the most recent project"`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&queryContextType, "type", "", "Restrict to one source type (profile, project, experience, skills, education, resume, blog, code)")
	cmd.Flags().StringVar(&querySourceID, "source", "", "Restrict to one source id")
	cmd.Flags().IntVar(&queryMaxChunks, "max-chunks", 0, "Maximum chunks to ground the answer in (0 = default)")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	contextType := models.SourceType(queryContextType)
	if contextType != "" && !contextType.IsValid() {
		return fmt.Errorf("unknown source type %q", queryContextType)
	}

	a, err := buildApp(true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	resp := a.service.Query(cmd.Context(), models.QueryRequest{
		Question:    args[0],
		ContextType: contextType,
		SourceID:    querySourceID,
		MaxChunks:   queryMaxChunks,
	})

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nConfidence: %.2f", resp.Confidence)
		if resp.Cached {
			fmt.Fprint(cmd.OutOrStdout(), " (cached)")
		}
		if resp.Timeout {
			fmt.Fprint(cmd.OutOrStdout(), " (timed out - please retry)")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nChunks: %d retrieved, %d used | Tokens: %d | %.2fs\n",
			resp.ChunksRetrieved, len(resp.ChunksUsed), resp.TokensUsed, resp.ResponseTime)
	}
	return nil
}
