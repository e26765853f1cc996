package cli

import (
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the search result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache hit/miss statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := wire(); err != nil {
			return err
		}
		stats := resultCache.Stats()
		cmd.Printf("entries:  %d\n", stats.Size)
		cmd.Printf("hits:     %d\n", stats.Hits)
		cmd.Printf("misses:   %d\n", stats.Misses)
		cmd.Printf("hit rate: %.1f%%\n", stats.HitRate())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached search results",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := wire(); err != nil {
			return err
		}
		removed := resultCache.Clear("")
		cmd.Printf("removed %d entries\n", removed)
		return nil
	},
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Sweep out expired cache entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := wire(); err != nil {
			return err
		}
		removed := resultCache.CleanupExpired()
		cmd.Printf("removed %d expired entries\n", removed)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)
	rootCmd.AddCommand(cacheCmd)
}
