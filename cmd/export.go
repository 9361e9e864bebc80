package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/matheuskafuri/ainews/internal/export"
	"github.com/matheuskafuri/ainews/internal/feed"
	"github.com/matheuskafuri/ainews/internal/filter"
	"github.com/spf13/cobra"
)

var (
	flagFormat string
	flagOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered feed as RSS, Atom or JSON Feed",
	Long: `Fetch the feed for the current filters and write it as a syndication
feed, so it can be read by any feed reader.

  ainews export --category Research --min-hotness 0.6 --format atom -o hot.xml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := s.requestContext(cmd)
		defer cancel()

		st := s.filters.State()
		loader := feed.NewLoader(s.source, s.cfg.PageSize)
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

		var w io.Writer = cmd.OutOrStdout()
		toFile := flagOutput != "" && flagOutput != "-"
		if toFile {
			f, err := os.Create(flagOutput)
			if err != nil {
				return fmt.Errorf("creating %s: %w", flagOutput, err)
			}
			defer f.Close()
			w = f
		}

		meta := export.Meta{
			Title:       "AI News",
			Link:        s.cfg.APIURL,
			Description: exportDescription(st),
			Created:     time.Now(),
		}
		if err := export.Write(w, format, meta, loader.Articles()); err != nil {
			return err
		}
		if toFile {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d articles to %s\n", loader.Len(), flagOutput)
		}
		return nil
	},
}

func exportDescription(st filter.State) string {
	parts := []string{"AI news"}
	if len(st.Sources) > 0 {
		parts = append(parts, "from "+strings.Join(st.Sources, ", "))
	}
	if len(st.Categories) > 0 {
		parts = append(parts, "in "+strings.Join(st.Categories, ", "))
	}
	if st.MinHotness > 0 {
		parts = append(parts, fmt.Sprintf("with hotness of at least %.0f%%", st.MinHotness*100))
	}
	parts = append(parts, "sorted by "+strings.ToLower(st.SortBy.Label()))
	return strings.Join(parts, " ")
}

func init() {
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", "rss", "output format: rss, atom or json")
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().IntVar(&flagPages, "pages", 1, "number of feed pages to include")
}
