// ABOUTME: CLI command to ingest portfolio content from a file or stdin
// ABOUTME: Chunks, embeds, and idempotently replaces a source's stored chunks
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harper/portfolio-rag/internal/models"
	"github.com/harper/portfolio-rag/internal/rag"
	"github.com/spf13/cobra"
)

var (
	ingestSourceType string
	ingestSourceID   string
	ingestTitle      string
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Ingest portfolio content",
		Long: `Ingest content for one source into the RAG store.

Reads text from the given file, or from stdin when no file is given.
The text is chunked, each chunk is embedded, and the source's prior
chunks are replaced atomically - re-ingesting never duplicates.

Examples:
  portfolio ingest --type profile --id bio about.md
  cat resume.txt | portfolio ingest --type resume --id cv --title "Resume 2026"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestSourceType, "type", "", "Source type (required): profile, project, experience, skills, education, resume, blog, or code")
	cmd.Flags().StringVar(&ingestSourceID, "id", "", "Stable source id (required)")
	cmd.Flags().StringVar(&ingestTitle, "title", "", "Human-readable source title")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	sourceType := models.SourceType(ingestSourceType)
	if !sourceType.IsValid() {
		return fmt.Errorf("unknown source type %q", ingestSourceType)
	}

	var text string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		text = string(data)
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no content to ingest")
	}

	a, err := buildApp(true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	result, err := a.ingestor.Ingest(cmd.Context(), rag.IngestRequest{
		SourceType:  sourceType,
		SourceID:    ingestSourceID,
		SourceTitle: ingestTitle,
		Text:        text,
	})
	if err != nil {
		return fmt.Errorf("ingesting content: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s/%s: %d chunks, %d embeddings (job %s)\n",
			sourceType, ingestSourceID, result.ChunksCreated, result.EmbeddingsGenerated,
			truncate(result.JobID, 16))
		if result.EmbeddingsGenerated < result.ChunksCreated {
			fmt.Fprintln(cmd.OutOrStdout(), "Some chunks are missing embeddings; run 'portfolio backfill' to retry.")
		}
	}
	return nil
}
