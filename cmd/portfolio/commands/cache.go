// ABOUTME: CLI commands for cache management: clear by scope, prune expired
// ABOUTME: Operates on the embedding cache tiers and the query-result cache
package commands

import (
	"fmt"
	"time"

	"github.com/harper/portfolio-rag/internal/rag"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command group
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the embedding and query caches",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePruneCmd())

	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [embeddings|queries|all]",
		Short: "Clear cached embeddings and/or query results",
		Long: `Clear cached data by scope.

  embeddings  drop cached embedding vectors (both tiers)
  queries     drop cached query answers
  all         drop both (default)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := rag.ScopeAll
			if len(args) == 1 {
				scope = args[0]
			}

			a, err := buildApp(false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			cleared, err := a.service.ClearCache(scope)
			if err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached entries (%s)\n", cleared, scope)
			}
			return nil
		},
	}
}

func newCachePruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop expired embedding-cache entries",
		Long: `Drop expired embedding-cache entries.

With --older-than, entries created before the given age are dropped as well,
whether or not they have expired (e.g. --older-than 720h for 30 days).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan < 0 {
				return fmt.Errorf("--older-than must not be negative, got %s", olderThan)
			}

			a, err := buildApp(false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			pruned, err := a.service.PruneEmbeddingCache(olderThan)
			if err != nil {
				return fmt.Errorf("pruning cache: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries\n", pruned)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "also drop entries created more than this long ago")

	return cmd
}
