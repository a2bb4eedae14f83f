// ABOUTME: CLI command to generate embeddings for chunks stored without one
// ABOUTME: Picks up after partial ingestion failures or API outages
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backfillLimit int

// NewBackfillCmd creates the backfill command
func NewBackfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Embed chunks that are missing vectors",
		Long: `Generate embeddings for chunks stored without one.

Chunks can be left without a vector when the embedding API fails during
ingestion; they are invisible to search until backfilled.`,
		Args: cobra.NoArgs,
		RunE: runBackfill,
	}

	cmd.Flags().IntVar(&backfillLimit, "limit", 100, "Maximum chunks to process")

	return cmd
}

func runBackfill(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(backfillLimit, "limit"); err != nil {
		return err
	}

	a, err := buildApp(true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	filled, err := a.ingestor.BackfillEmbeddings(cmd.Context(), backfillLimit)
	if err != nil {
		return fmt.Errorf("backfilling embeddings: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Backfilled %d embeddings\n", filled)
	}
	return nil
}
