package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/matheuskafuri/ainews/internal/browser"
	"github.com/matheuskafuri/ainews/internal/feed"
	"github.com/spf13/cobra"
)

var (
	flagPage  int
	flagPages int
	flagLimit int
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List articles matching the current filters",
	Long: `Print the article feed for the configured default filters, adjusted by
any --source, --category, --keyword, --min-hotness or --sort flags.

Use --pages to follow pagination the way the feed view does when scrolling.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagPage < 1 {
			return fmt.Errorf("--page must be at least 1, got %d", flagPage)
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := s.requestContext(cmd)
		defer cancel()

		perPage := s.cfg.PageSize
		if flagLimit > 0 {
			perPage = flagLimit
		}
		st := s.filters.State()
		out := cmd.OutOrStdout()

		if flagPages <= 1 {
			resp, err := s.source.FetchArticles(ctx, st, flagPage, perPage)
			if err != nil {
				return fmt.Errorf("fetching articles: %w", err)
			}
			if flagJSON {
				return writeJSON(out, resp)
			}
			printArticles(out, resp.Articles, (flagPage-1)*perPage, time.Now())
			if p := resp.Pagination; p != nil && p.Pages > 0 {
				fmt.Fprintf(out, "\nPage %d of %d", p.Page, p.Pages)
				if p.Total > 0 {
					fmt.Fprintf(out, " · %d articles", p.Total)
				}
				fmt.Fprintln(out)
			}
			return nil
		}

		loader := feed.NewLoader(s.source, perPage)
		if err := loader.LoadPage(ctx, st, 1); err != nil {
			return fmt.Errorf("fetching articles: %w", err)
		}
		for loader.Page() < flagPages {
			more, err := loader.LoadMore(ctx, st)
			if err != nil {
				return fmt.Errorf("fetching page %d: %w", loader.Page(), err)
			}
			if !more {
				break
			}
		}
		if flagJSON {
			return writeJSON(out, loader.Articles())
		}
		printArticles(out, loader.Articles(), 0, time.Now())
		if !loader.HasMore() {
			fmt.Fprintln(out, "\nNo more articles.")
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one article in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid article id %q", args[0])
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := s.requestContext(cmd)
		defer cancel()

		a, err := s.source.Article(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching article %d: %w", id, err)
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), a)
		}
		printArticle(cmd.OutOrStdout(), *a, s.filters.State().ShowSummaries, time.Now())
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open an article in the default browser",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid article id %q", args[0])
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := s.requestContext(cmd)
		defer cancel()

		a, err := s.source.Article(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching article %d: %w", id, err)
		}
		if err := browser.Open(a.URL); err != nil {
			return fmt.Errorf("opening %s: %w", a.URL, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", a.URL)
		return nil
	},
}

func init() {
	articlesCmd.Flags().IntVar(&flagPage, "page", 1, "page to fetch")
	articlesCmd.Flags().IntVar(&flagPages, "pages", 1, "number of pages to follow from page 1")
	articlesCmd.Flags().IntVar(&flagLimit, "limit", 0, "articles per page (default from config)")
	articlesCmd.Flags().BoolVar(&flagJSON, "json", false, "print raw JSON")
	showCmd.Flags().BoolVar(&flagJSON, "json", false, "print raw JSON")
}
