package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/display"
	"github.com/matheuskafuri/ainews/internal/feed"
	"github.com/matheuskafuri/ainews/internal/hotness"
)

var asciiLogo = []string{
	` █████╗ ██╗    ███╗   ██╗███████╗██╗    ██╗███████╗`,
	`██╔══██╗██║    ████╗  ██║██╔════╝██║    ██║██╔════╝`,
	`███████║██║    ██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗`,
	`██╔══██║██║    ██║╚██╗██║██╔══╝  ██║███╗██║╚════██║`,
	`██║  ██║██║    ██║ ╚████║███████╗╚███╔███╔╝███████║`,
	`╚═╝  ╚═╝╚═╝    ╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝`,
}

func renderHomeScreen(width, height int, ov feed.Overview, loading bool) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)

	var lines []string

	// ASCII logo
	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "")

	switch {
	case ov.Stats != nil:
		lines = append(lines, "          "+renderStats(ov.Stats))
	case loading:
		lines = append(lines, "          "+helpDimStyle.Render("Loading statistics..."))
	}
	if len(ov.Keywords) > 0 {
		lines = append(lines, "          "+helpDimStyle.Render("Trending: ")+keywordLine(ov.Keywords, 5))
	}
	lines = append(lines, "")

	// Menu items
	lines = append(lines, "          "+keyStyle.Render("[e]")+"  "+labelStyle.Render("Latest news"))
	lines = append(lines, "          "+keyStyle.Render("[t]")+"  "+labelStyle.Render("Trending"))
	lines = append(lines, "          "+keyStyle.Render("[/]")+"  "+labelStyle.Render("Search"))
	lines = append(lines, "          "+keyStyle.Render("[f]")+"  "+labelStyle.Render("Filters"))
	lines = append(lines, "")
	lines = append(lines, "          "+keyStyle.Render("[q]")+"  "+labelStyle.Render("Quit"))

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	// Center horizontally
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}

func renderStats(st *api.StatsResponse) string {
	s := fmt.Sprintf("%s articles · avg hotness %s · %s views",
		display.FormatCount(st.Stats.TotalArticles),
		hotness.Percent(st.Stats.AverageHotness),
		display.FormatCount(st.Stats.TotalViews),
	)
	if st.Period != "" {
		s += " · last " + st.Period
	}
	return headerStatStyle.Render(s)
}

func keywordLine(kws []api.KeywordCount, n int) string {
	var parts []string
	for i, k := range kws {
		if i >= n {
			break
		}
		parts = append(parts, keywordChipStyle.Render(k.Keyword))
	}
	return strings.Join(parts, " ")
}

// renderTrending lays out the trending view: ranked articles on the left,
// numbered keywords on the right.
func renderTrending(ov feed.Overview, cursor, width, height int, loading bool) string {
	listWidth := int(float64(width) * 0.65)
	kwWidth := width - listWidth - 1

	footer := ""
	if loading && len(ov.Trending) == 0 {
		footer = "Loading trending articles..."
	}
	list := renderList(ov.Trending, cursor, height, listWidth-4, listOpts{ranked: true, footer: footer})
	listPane := listPaneActiveStyle.Width(listWidth - 2).Height(height).Render(list)

	var b strings.Builder
	b.WriteString(panelHeadingStyle.Render("Trending keywords") + "\n\n")
	if len(ov.Keywords) == 0 {
		b.WriteString(helpDimStyle.Render("none yet"))
	}
	for i, k := range ov.Keywords {
		if i >= 9 {
			break
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			rankTopStyle.Render(fmt.Sprintf("%d", i+1)),
			display.Truncate(k.Keyword, kwWidth-12),
			helpDimStyle.Render(fmt.Sprintf("(%d)", k.Count)),
		))
	}
	b.WriteString("\n" + helpDimStyle.Render("1-9 search keyword"))
	kwPane := previewPaneStyle.Width(kwWidth - 2).Height(height).Render(b.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, kwPane)
}
