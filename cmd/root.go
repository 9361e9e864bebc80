package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/matheuskafuri/ainews/internal/filter"
	"github.com/matheuskafuri/ainews/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig     string
	flagNoCache    bool
	flagFeed       bool
	flagSources    []string
	flagCategories []string
	flagKeywords   []string
	flagMinHotness float64
	flagSort       string
	flagTimeRange  string
	flagJSON       bool
)

var rootCmd = &cobra.Command{
	Use:   "ainews",
	Short: "Terminal reader for the AI news aggregator",
	Long: `ainews browses articles collected by an AI news aggregator backend.

Filter by source, category and hotness, search, see what is trending and
trigger a fresh scrape, all from the terminal. Responses are cached locally
so repeated views are instant.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to config file")
	pf.BoolVar(&flagNoCache, "no-cache", false, "keep responses in memory only for this run")
	pf.StringSliceVar(&flagSources, "source", nil, "only show articles from these sources")
	pf.StringSliceVar(&flagCategories, "category", nil, "only show these categories")
	pf.StringSliceVar(&flagKeywords, "keyword", nil, "only show articles tagged with these keywords")
	pf.Float64Var(&flagMinHotness, "min-hotness", 0, "minimum hotness score between 0 and 1")
	pf.StringVar(&flagSort, "sort", "", "sort order: hotness, date or relevance")
	pf.StringVar(&flagTimeRange, "since", "", "time range to remember in the filters, e.g. 24h or 7d (not sent to the API)")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check GitHub for a newer release")
	rootCmd.Flags().BoolVar(&flagFeed, "feed", false, "open straight into the article feed instead of the home screen")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cacheCmd)
}

var flagCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ainews %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return nil
		}
		res, err := update.NewChecker().Check(cmd.Context(), version)
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Fprintln(out, "You are on the latest version.")
			return nil
		}
		fmt.Fprintf(out, "A newer version is available: %s (%s)\n", res.LatestVersion, res.URL)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", displayError(err))
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// applyFilterFlags copies the filter flags the user actually set onto
// store. Unset flags leave the configured defaults alone.
func applyFilterFlags(cmd *cobra.Command, store *filter.Store) error {
	flags := cmd.Flags()
	var p filter.Partial

	if flags.Changed("source") {
		p.Sources = nonEmpty(flagSources)
	}
	if flags.Changed("category") {
		p.Categories = nonEmpty(flagCategories)
	}
	if flags.Changed("keyword") {
		p.Keywords = nonEmpty(flagKeywords)
	}
	if flags.Changed("min-hotness") {
		if flagMinHotness < 0 || flagMinHotness > 1 {
			return fmt.Errorf("--min-hotness must be between 0 and 1, got %v", flagMinHotness)
		}
		v := flagMinHotness
		p.MinHotness = &v
	}
	if flags.Changed("sort") {
		s := filter.SortBy(strings.ToLower(flagSort))
		if !s.Valid() {
			return fmt.Errorf("unknown sort %q (want hotness, date or relevance)", flagSort)
		}
		p.SortBy = &s
	}
	if flags.Changed("since") {
		r := flagTimeRange
		p.TimeRange = &r
	}

	store.SetFilters(p)
	return nil
}

// nonEmpty drops blank entries so `--source ""` means "all sources" and
// yields an empty, non-nil selection.
func nonEmpty(in []string) []string {
	out := []string{}
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
