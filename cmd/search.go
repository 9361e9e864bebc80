package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/ainews/internal/feed"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Full-text search across all articles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("search query is empty")
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := s.requestContext(cmd)
		defer cancel()

		perPage := s.cfg.SearchPageSize
		if flagLimit > 0 {
			perPage = flagLimit
		}
		s.filters.SetSearchQuery(query)
		res, err := feed.NewSearcher(s.source, perPage).Search(ctx, query)
		if err != nil {
			return fmt.Errorf("searching %q: %w", query, err)
		}

		out := cmd.OutOrStdout()
		if flagJSON {
			return writeJSON(out, res.Articles)
		}
		fmt.Fprintf(out, "%s\n\n", res.Summary())
		printArticles(out, res.Articles, 0, time.Now())
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&flagLimit, "limit", 0, "maximum results (default from config)")
	searchCmd.Flags().BoolVar(&flagJSON, "json", false, "print raw JSON")
}
