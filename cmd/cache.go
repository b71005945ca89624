package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spiffcs/statcard/config"
	"github.com/spiffcs/statcard/internal/cache"
)

// NewCmdCache creates the cache command with subcommands.
func NewCmdCache() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the language cache",
		Long: `Manage the on-disk cache of per-repository language bytes and the
language color table. Entries are reused until cache.ttl expires or the
repository receives a new push.`,
	}

	cmd.AddCommand(newCmdCacheClear())
	cmd.AddCommand(newCmdCacheStats())

	return cmd
}

// newCmdCacheClear creates the cache clear subcommand.
func newCmdCacheClear() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the language cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openCacheForCommand()
			if err != nil {
				return err
			}
			if err := c.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
}

// newCmdCacheStats creates the cache stats subcommand.
func newCmdCacheStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openCacheForCommand()
			if err != nil {
				return err
			}
			return printCacheStats(cmd.OutOrStdout(), c)
		},
	}
}

func openCacheForCommand() (*cache.Cache, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c, err := cache.NewCache(cfg.CacheTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to access cache: %w", err)
	}
	return c, nil
}

func printCacheStats(w io.Writer, c *cache.Cache) error {
	stats, err := c.DetailedStats()
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}

	colors := "not cached"
	switch {
	case stats.ColorsValid:
		colors = "valid"
	case stats.ColorsCached:
		colors = "expired"
	}

	fmt.Fprintf(w, "Cache statistics (TTL: %s):\n", c.TTL())
	fmt.Fprintf(w, "  Repository languages:\n")
	fmt.Fprintf(w, "    Total: %d\n", stats.LanguageTotal)
	fmt.Fprintf(w, "    Valid: %d\n", stats.LanguageValid)
	fmt.Fprintf(w, "    Expired: %d\n", stats.LanguageTotal-stats.LanguageValid)
	fmt.Fprintf(w, "  Language colors: %s\n", colors)
	return nil
}
