package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/display"
	"github.com/matheuskafuri/ainews/internal/filter"
	"github.com/matheuskafuri/ainews/internal/hotness"
)

func renderPreview(article *api.Article, st filter.State, width, height, scroll int) string {
	if article == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(article.Title)

	byline := article.Source
	if article.Author != "" {
		byline += " · " + article.Author
	}
	byline += " · " + display.TimeAgo(article.PublishedAt.Time, time.Now())
	source := previewSourceStyle.Width(contentWidth).Render(byline)

	heat := hotnessBadge(article.HotnessScore) + " " +
		itemTimeStyle.Render(hotness.Bar(article.HotnessScore, 10)+" "+hotness.Percent(article.HotnessScore))
	if article.Category != "" {
		heat += itemTimeStyle.Render("  " + article.Category)
	}
	if label := display.SentimentLabel(article.Sentiment); label != "" {
		heat += "  " + sentimentStyle(article.Sentiment).Render(label)
	}

	sections := []string{title, source, heat}
	if eng := display.Engagement(*article); eng != "" {
		sections = append(sections, itemTimeStyle.Render(eng))
	}

	if kws := display.TopKeywords(article.Keywords, display.MaxKeywords); len(kws) > 0 {
		chips := make([]string, len(kws))
		for i, k := range kws {
			chips[i] = keywordChipStyle.Render(k)
		}
		sections = append(sections, "", lipgloss.NewStyle().Width(contentWidth).Render(strings.Join(chips, " ")))
	}

	if st.ShowSummaries {
		summary := display.PlainText(article.Summary)
		if summary == "" {
			summary = "(No summary available)"
		}
		sections = append(sections, "", previewBodyStyle.Width(contentWidth).Render(wrapText(summary, contentWidth)))
	}

	if st.ShowImages && article.ImageURL != "" {
		sections = append(sections, "", itemTimeStyle.Render("Image: "+display.Truncate(article.ImageURL, contentWidth-7)))
	}

	sections = append(sections, previewLinkStyle.Width(contentWidth).Render("Read more: "+article.URL))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if lipgloss.Width(line)+1+lipgloss.Width(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
