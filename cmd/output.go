package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/display"
	"github.com/matheuskafuri/ainews/internal/hotness"
)

const titleWidth = 80

// displayError is the text printed for a failed command. Backend failures
// read as the server's own message, or the generic network message.
func displayError(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) || api.IsNetworkError(err) {
		return api.ErrorMessage(err)
	}
	return err.Error()
}

func printArticles(w io.Writer, articles []api.Article, offset int, now time.Time) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}
	for i, a := range articles {
		source := a.Source
		if source == "" {
			source = "unknown"
		}
		fmt.Fprintf(w, "%3d. %s\n", offset+i+1, display.Truncate(a.Title, titleWidth))
		fmt.Fprintf(w, "     %s · %s · %s %s\n",
			source,
			display.TimeAgo(a.PublishedAt.Time, now),
			hotness.Label(a.HotnessScore),
			hotness.Percent(a.HotnessScore),
		)
		if a.URL != "" {
			fmt.Fprintf(w, "     %s\n", a.URL)
		}
	}
}

func printArticle(w io.Writer, a api.Article, showSummary bool, now time.Time) {
	fmt.Fprintln(w, a.Title)
	fmt.Fprintln(w, strings.Repeat("─", min(len([]rune(a.Title)), titleWidth)))

	meta := []string{a.Source}
	if a.Author != "" {
		meta = append(meta, "by "+a.Author)
	}
	meta = append(meta, display.TimeAgo(a.PublishedAt.Time, now))
	if a.Category != "" {
		meta = append(meta, a.Category)
	}
	fmt.Fprintln(w, strings.Join(meta, " · "))

	fmt.Fprintf(w, "Hotness:   %s %s (%s)\n",
		hotness.Bar(a.HotnessScore, 20), hotness.Percent(a.HotnessScore), hotness.Label(a.HotnessScore))
	if s := display.SentimentLabel(a.Sentiment); s != "" {
		fmt.Fprintf(w, "Sentiment: %s\n", s)
	}
	if e := display.Engagement(a); e != "" {
		fmt.Fprintf(w, "Engagement: %s\n", e)
	}
	if kws := display.TopKeywords(a.Keywords, display.MaxKeywords); len(kws) > 0 {
		fmt.Fprintf(w, "Keywords:  %s\n", strings.Join(kws, ", "))
	}
	if showSummary {
		if summary := display.PlainText(a.Summary); summary != "" {
			fmt.Fprintf(w, "\n%s\n", summary)
		}
	}
	if a.URL != "" {
		fmt.Fprintf(w, "\n%s\n", a.URL)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func formatDuration(d time.Duration) string {
	if days := int(d.Hours() / 24); days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	if h := int(d.Hours()); h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
