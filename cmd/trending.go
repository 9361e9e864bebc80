package cmd

import (
	"fmt"
	"time"

	"github.com/matheuskafuri/ainews/internal/display"
	"github.com/spf13/cobra"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show the hottest articles right now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := s.requestContext(cmd)
		defer cancel()

		limit := s.cfg.TrendingLimit
		if flagLimit > 0 {
			limit = flagLimit
		}
		articles, err := s.source.Trending(ctx, limit)
		if err != nil {
			return fmt.Errorf("fetching trending: %w", err)
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), articles)
		}
		printArticles(cmd.OutOrStdout(), articles, 0, time.Now())
		return nil
	},
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Show trending keywords",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := s.requestContext(cmd)
		defer cancel()

		limit := s.cfg.KeywordsLimit
		if flagLimit > 0 {
			limit = flagLimit
		}
		kws, err := s.source.TrendingKeywords(ctx, limit)
		if err != nil {
			return fmt.Errorf("fetching keywords: %w", err)
		}

		out := cmd.OutOrStdout()
		if flagJSON {
			return writeJSON(out, kws)
		}
		if len(kws) == 0 {
			fmt.Fprintln(out, "No trending keywords.")
			return nil
		}
		for i, kw := range kws {
			fmt.Fprintf(out, "%2d. %-30s %s\n", i+1, kw.Keyword, display.FormatCount(kw.Count))
		}
		return nil
	},
}

func init() {
	trendingCmd.Flags().IntVar(&flagLimit, "limit", 0, "number of articles (default from config)")
	trendingCmd.Flags().BoolVar(&flagJSON, "json", false, "print raw JSON")
	keywordsCmd.Flags().IntVar(&flagLimit, "limit", 0, "number of keywords (default from config)")
	keywordsCmd.Flags().BoolVar(&flagJSON, "json", false, "print raw JSON")
}
