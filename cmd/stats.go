package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/display"
	"github.com/matheuskafuri/ainews/internal/hotness"
	"github.com/spf13/cobra"
)

var flagWait bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics from the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := s.requestContext(cmd)
		defer cancel()

		st, err := s.source.Stats(ctx)
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), st)
		}
		printStats(cmd.OutOrStdout(), st)
		return nil
	},
}

func printStats(w io.Writer, st *api.StatsResponse) {
	if st.Period != "" {
		fmt.Fprintf(w, "Period:          %s\n", st.Period)
	}
	fmt.Fprintf(w, "Articles:        %s\n", display.FormatCount(st.Stats.TotalArticles))
	fmt.Fprintf(w, "Average hotness: %s (%s)\n",
		hotness.Percent(st.Stats.AverageHotness), hotness.Label(st.Stats.AverageHotness))
	fmt.Fprintf(w, "Total views:     %s\n", display.FormatCount(st.Stats.TotalViews))
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Ask the backend to scrape all sources now",
	Long: `Trigger a scrape on the backend. The scrape runs asynchronously; with
--wait the command waits for the configured scrape_refresh_delay, drops the
cached first page and stats, and prints the refreshed stats.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := s.requestContext(cmd)
		defer cancel()

		out := cmd.OutOrStdout()
		res, err := s.source.TriggerScrape(ctx)
		if err != nil {
			return fmt.Errorf("triggering scrape: %w", err)
		}
		msg := res.Message
		if msg == "" {
			msg = "Scrape started."
		}
		fmt.Fprintln(out, msg)

		if !flagWait {
			return nil
		}

		delay := s.cfg.ScrapeDelay()
		fmt.Fprintf(out, "Waiting %s for the scrape to settle...\n", delay)
		select {
		case <-time.After(delay):
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}

		ctx, cancel = s.requestContext(cmd)
		defer cancel()
		if err := s.source.AfterScrape(ctx, s.filters.State(), s.cfg.PageSize); err != nil {
			return err
		}
		st, err := s.source.Stats(ctx)
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}
		fmt.Fprintln(out)
		printStats(out, st)
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&flagJSON, "json", false, "print raw JSON")
	scrapeCmd.Flags().BoolVar(&flagWait, "wait", false, "wait for the scrape and print refreshed stats")
}
