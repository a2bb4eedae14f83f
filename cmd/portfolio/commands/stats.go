// ABOUTME: CLI command showing chunk, cache, and recent-activity statistics
// ABOUTME: Aggregates over stored chunks, the query log, and processing jobs
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show content and query statistics",
		Long: `Show statistics about stored chunks, cached embeddings, and activity
over the last 24 hours.`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := buildApp(false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	stats, err := a.service.Stats()
	if err != nil {
		return fmt.Errorf("gathering stats: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if stats.Chunks != nil {
		fmt.Fprintf(w, "Chunks:\t%d total, %d active, %d embedded\n",
			stats.Chunks.Total, stats.Chunks.Active, stats.Chunks.WithEmbeddings)
		for sourceType, count := range stats.Chunks.BySourceType {
			fmt.Fprintf(w, "  %s:\t%d\n", sourceType, count)
		}
	}
	fmt.Fprintf(w, "Cached embeddings:\t%d\n", stats.CachedEmbeddings)
	if stats.RecentQueries != nil {
		fmt.Fprintf(w, "Queries (24h):\t%d (avg %.2fs, avg confidence %.2f)\n",
			stats.RecentQueries.TotalQueries,
			stats.RecentQueries.AvgProcessingTime,
			stats.RecentQueries.AvgConfidence)
	}
	fmt.Fprintf(w, "Ingestion jobs (24h):\t%d\n", stats.RecentJobs)
	return w.Flush()
}
