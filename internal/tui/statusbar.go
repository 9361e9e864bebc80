package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type toast struct {
	id    int
	text  string
	isErr bool
}

func (t toast) render() string {
	if t.text == "" {
		return ""
	}
	if t.isErr {
		return toastErrStyle.Render("✗ " + t.text)
	}
	return toastStyle.Render("✓ " + t.text)
}

type statusInfo struct {
	count   int
	page    int
	label   string
	hasMore bool
	busy    string // non-empty while something is loading
	hints   string
}

func renderStatusBar(info statusInfo, t toast, spin string, width int) string {
	left := fmt.Sprintf(" %d articles", info.count)
	if info.page > 1 {
		left += fmt.Sprintf(" · page %d", info.page)
	}
	if info.label != "" {
		left += " · " + info.label
	}
	if info.busy != "" {
		left = spin + left + " (" + info.busy + ")"
	}

	// a toast replaces the summary while it is shown
	if msg := t.render(); msg != "" {
		left = " " + msg
	}

	right := " " + info.hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

func renderBottomBar(t toast, hints string, width int) string {
	left := ""
	if msg := t.render(); msg != "" {
		left = " " + msg
	}

	right := " " + hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
