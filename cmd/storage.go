package cmd

import (
	"fmt"
	"time"

	"github.com/matheuskafuri/ainews/internal/cache"
	"github.com/matheuskafuri/ainews/internal/config"
	"github.com/matheuskafuri/ainews/internal/feed"
	"github.com/spf13/cobra"
)

var flagPruneOlderThan string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the local response cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old responses from the cache",
	Long: `Delete cached responses older than the retention period and reclaim disk space.

Uses the retention value from config (default: 7d) unless overridden with --older-than.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		retention := cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d := config.ParseDuration(flagPruneOlderThan, 0)
			if d <= 0 {
				return fmt.Errorf("invalid --older-than value %q", flagPruneOlderThan)
			}
			retention = d
		}

		logger, logCloser := newLogger(cfg)
		defer logCloser.Close()

		store, err := openStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.Prune(cmd.Context(), time.Now().Add(-retention))
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		out := cmd.OutOrStdout()
		if deleted == 0 {
			fmt.Fprintln(out, "Nothing to prune.")
		} else {
			fmt.Fprintf(out, "Pruned %d response(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

// cacheKinds are the response kinds `cache clear` drops when none are named.
var cacheKinds = []string{feed.KindArticles, feed.KindSearch, feed.KindTrending, feed.KindStats, feed.KindKeywords}

var cacheClearCmd = &cobra.Command{
	Use:       "clear [kind...]",
	Short:     "Drop cached responses, optionally only of the given kinds",
	ValidArgs: cacheKinds,
	Args:      cobra.OnlyValidArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, logCloser := newLogger(cfg)
		defer logCloser.Close()

		store, err := openStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		kinds := args
		if len(kinds) == 0 {
			kinds = cacheKinds
		}
		q := cache.NewQuery(store)
		var total int64
		for _, kind := range kinds {
			n, err := q.InvalidateKind(cmd.Context(), kind)
			if err != nil {
				return fmt.Errorf("clearing %s: %w", kind, err)
			}
			total += n
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached response(s).\n", total)
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cfg.Cache.Backend != "sqlite" {
			fmt.Fprintf(out, "Cache backend: %s (no local statistics)\n", cfg.Cache.Backend)
			return nil
		}

		dbPath := cfg.CacheFile()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		counts, size, err := db.Stats(cmd.Context(), dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		total := 0
		for _, kc := range counts {
			total += kc.Count
		}
		fmt.Fprintf(out, "Cache: %s\n", dbPath)
		fmt.Fprintf(out, "Responses: %d\n", total)
		for _, kc := range counts {
			fmt.Fprintf(out, "  %-10s %d\n", kc.Kind, kc.Count)
		}
		fmt.Fprintf(out, "Size: %s\n", formatBytes(size))
		fmt.Fprintf(out, "Fresh for %s, served stale up to %s, kept %s\n",
			formatDuration(cfg.FreshDuration()), formatDuration(cfg.MaxStaleDuration()), formatDuration(cfg.RetentionDuration()))
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")
	cacheCmd.AddCommand(cachePruneCmd, cacheClearCmd, cacheStatsCmd)
}
