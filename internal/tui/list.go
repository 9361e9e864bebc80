package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/display"
)

// scrollThreshold is how close to the end of the list the cursor must get
// before the next page is requested.
const scrollThreshold = 3

type listOpts struct {
	ranked bool   // prefix rows with their position, top 3 highlighted
	footer string // shown after the last row, e.g. "Loading more..."
}

func renderListItem(a api.Article, idx int, selected bool, width int, opts listOpts, now time.Time) string {
	if width < 10 {
		width = 30
	}

	prefix := "  "
	if selected {
		prefix = "> "
	}
	if opts.ranked {
		rank := fmt.Sprintf("%d. ", idx+1)
		if idx < 3 {
			rank = rankTopStyle.Render(rank)
		}
		prefix += rank
	}

	title := display.Truncate(a.Title, width-4)
	if selected {
		title = itemSelectedStyle.Render(title)
	} else {
		title = itemTitleStyle.Render(title)
	}

	source := a.Source
	if source == "" {
		source = "unknown"
	}
	meta := "  " + itemSourceStyle.Render(source) + " " +
		itemTimeStyle.Render("· "+display.Short(a.PublishedAt.Time, now)+" · ") +
		hotnessBadge(a.HotnessScore) + " " +
		sentimentStyle(a.Sentiment).Render(display.SentimentIcon(a.Sentiment))

	return prefix + title + "\n" + meta
}

func renderList(articles []api.Article, cursor int, height int, width int, opts listOpts) string {
	if len(articles) == 0 {
		msg := "No articles found"
		if opts.footer != "" {
			msg = opts.footer
		}
		return lipglossCenter(msg, width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if opts.footer != "" {
		visible = (height - 1) / itemHeight
	}
	if visible < 1 {
		visible = 1
	}

	start, end := visibleRange(len(articles), cursor, visible)

	now := time.Now()
	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(articles[i], i, i == cursor, width, opts, now))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if opts.footer != "" && end == len(articles) {
		b.WriteString("\n" + itemTimeStyle.Render("  "+opts.footer))
	}

	return b.String()
}

// visibleRange returns the window of rows that keeps cursor on screen.
func visibleRange(n, cursor, visible int) (int, int) {
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > n {
		end = n
		start = max(end-visible, 0)
	}
	return start, end
}

// nearEnd reports whether cursor is within the scroll threshold of the last
// of n rows.
func nearEnd(cursor, n int) bool {
	return n > 0 && cursor >= n-scrollThreshold
}

func lipglossCenter(s string, width, height int) string {
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", max((width-len(s))/2, 0)) + s
}
