package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/ainews/internal/filter"
	"github.com/matheuskafuri/ainews/internal/hotness"
)

type panelRow int

const (
	rowSource panelRow = iota
	rowCategory
	rowHotness
	rowSort
	rowSummaries
	rowImages
	rowReset
)

type panelItem struct {
	row   panelRow
	value string
}

const hotnessStep = 0.1

// filterPanel edits the filter store. It keeps no selection state of its
// own beyond the cursor; every change goes straight to the store.
type filterPanel struct {
	sources    []string
	categories []string
	cursor     int
}

func newFilterPanel(sources, categories []string) filterPanel {
	return filterPanel{sources: sources, categories: categories}
}

func (p *filterPanel) setOptions(sources, categories []string) {
	p.sources = sources
	p.categories = categories
	p.cursor = min(p.cursor, len(p.items())-1)
}

func (p filterPanel) items() []panelItem {
	items := make([]panelItem, 0, len(p.sources)+len(p.categories)+5)
	for _, s := range p.sources {
		items = append(items, panelItem{row: rowSource, value: s})
	}
	for _, c := range p.categories {
		items = append(items, panelItem{row: rowCategory, value: c})
	}
	return append(items,
		panelItem{row: rowHotness},
		panelItem{row: rowSort},
		panelItem{row: rowSummaries},
		panelItem{row: rowImages},
		panelItem{row: rowReset},
	)
}

func (p filterPanel) current() panelItem {
	items := p.items()
	if p.cursor < 0 || p.cursor >= len(items) {
		return items[len(items)-1]
	}
	return items[p.cursor]
}

func (p *filterPanel) move(delta int) {
	n := len(p.items())
	p.cursor = (p.cursor + delta + n) % n
}

// activate applies the primary action of the row under the cursor.
func (p filterPanel) activate(store *filter.Store) {
	st := store.State()
	switch it := p.current(); it.row {
	case rowSource:
		store.ToggleSource(it.value)
	case rowCategory:
		store.ToggleCategory(it.value)
	case rowHotness:
		store.SetMinHotness(stepHotness(st.MinHotness, hotnessStep))
	case rowSort:
		store.SetSortBy(st.SortBy.Next())
	case rowSummaries:
		store.SetShowSummaries(!st.ShowSummaries)
	case rowImages:
		store.SetShowImages(!st.ShowImages)
	case rowReset:
		store.Reset()
	}
}

// adjust handles left/right: hotness steps by 0.1, sort cycles, other rows
// toggle.
func (p filterPanel) adjust(store *filter.Store, dir int) {
	st := store.State()
	switch p.current().row {
	case rowHotness:
		store.SetMinHotness(stepHotness(st.MinHotness, float64(dir)*hotnessStep))
	case rowSort:
		sorts := filter.AllSorts()
		i := 0
		for j, s := range sorts {
			if s == st.SortBy {
				i = j
			}
		}
		store.SetSortBy(sorts[(i+dir+len(sorts))%len(sorts)])
	case rowReset:
	default:
		p.activate(store)
	}
}

// stepHotness moves v by delta and snaps to one decimal so repeated steps
// do not drift.
func stepHotness(v, delta float64) float64 {
	return math.Round((v+delta)*10) / 10
}

func (p filterPanel) render(st filter.State, width, height int) string {
	var b strings.Builder
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("Filters")
	b.WriteString(title + "\n")

	items := p.items()
	lastRow := panelRow(-1)
	for i, it := range items {
		if it.row != lastRow {
			switch it.row {
			case rowSource:
				b.WriteString("\n" + panelHeadingStyle.Render("Sources") + "\n")
			case rowCategory:
				b.WriteString("\n" + panelHeadingStyle.Render("Categories") + "\n")
			case rowHotness:
				b.WriteString("\n" + panelHeadingStyle.Render("Ranking") + "\n")
			case rowSummaries:
				b.WriteString("\n" + panelHeadingStyle.Render("Display") + "\n")
			case rowReset:
				b.WriteString("\n")
			}
			lastRow = it.row
		}

		line := p.itemLabel(it, st)
		if i == p.cursor {
			line = panelCursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + helpDimStyle.Render("j/k move  space toggle  ←/→ adjust  x reset  esc close"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panelStyle.Render(b.String()))
}

func (p filterPanel) itemLabel(it panelItem, st filter.State) string {
	switch it.row {
	case rowSource:
		return checkbox(st.HasSource(it.value)) + " " + it.value
	case rowCategory:
		return checkbox(st.HasCategory(it.value)) + " " + it.value
	case rowHotness:
		return fmt.Sprintf("Min hotness  %s %.1f (%s)", hotness.Bar(st.MinHotness, 10), st.MinHotness, hotness.ThresholdLabel(st.MinHotness))
	case rowSort:
		return "Sort by      " + st.SortBy.Label()
	case rowSummaries:
		return checkbox(st.ShowSummaries) + " Show summaries"
	case rowImages:
		return checkbox(st.ShowImages) + " Show images"
	case rowReset:
		return "Reset to defaults"
	}
	return ""
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// filterLabel summarizes st for the status bar.
func filterLabel(st filter.State) string {
	var parts []string
	if len(st.Sources) > 0 {
		parts = append(parts, strings.Join(st.Sources, ", "))
	}
	if len(st.Categories) > 0 {
		parts = append(parts, strings.Join(st.Categories, ", "))
	} else {
		parts = append(parts, "all categories")
	}
	if st.MinHotness > 0 {
		parts = append(parts, "≥ "+hotness.ThresholdLabel(st.MinHotness))
	}
	parts = append(parts, "by "+strings.ToLower(st.SortBy.Label()))
	return strings.Join(parts, " · ")
}

// renderFilterBar shows the active filters as tabs above the list.
func renderFilterBar(st filter.State, width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	if len(st.Sources) == 0 {
		parts = append(parts, tabActiveStyle.Render("All sources"))
	}
	for _, s := range st.Sources {
		parts = append(parts, tabActiveStyle.Render(s))
	}
	for _, c := range st.Categories {
		parts = append(parts, tabInactiveStyle.Render(c))
	}
	for _, k := range st.Keywords {
		parts = append(parts, tabInactiveStyle.Render("#"+k))
	}
	parts = append(parts, tabInactiveStyle.Render(st.SortBy.Label()))

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
