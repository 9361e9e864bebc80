package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/ainews/internal/api"
	"github.com/matheuskafuri/ainews/internal/hotness"
)

var (
	// Adaptive colors for dark/light terminals
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorSecondary = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorText      = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E4E4E4"}
	colorDim       = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorActiveBdr = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorTabActive = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorTabBg     = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A3E"}
	colorSurface   = lipgloss.AdaptiveColor{Light: "#F4F4F4", Dark: "#1E1E2E"}
	colorStatusBg  = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#16213E"}
	colorStatusFg  = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorGreen     = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorRed       = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F6D"}
	colorOrange    = lipgloss.AdaptiveColor{Light: "#E8710A", Dark: "#FFA040"}
	colorYellow    = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F1C40F"}
	colorBlue      = lipgloss.AdaptiveColor{Light: "#1E6FD9", Dark: "#5DADE2"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingLeft(1)

	headerDateStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Align(lipgloss.Right)

	headerStatStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	listPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	listPaneActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorActiveBdr)

	previewPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	previewPaneActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorActiveBdr)

	itemTitleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	itemSourceStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	itemTimeStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	previewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary).
				MarginBottom(1)

	previewSourceStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	previewBodyStyle = lipgloss.NewStyle().
				Foreground(colorSecondary)

	previewLinkStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Italic(true).
				MarginTop(1)

	keywordChipStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Background(colorTabBg).
				Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorTabActive).
			Padding(0, 1).
			Bold(true)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Background(colorTabBg).
				Padding(0, 1)

	tabSeparatorStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorActiveBdr).
			Padding(1, 2)

	panelHeadingStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Bold(true)

	panelCursorStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorStatusBg).
			Foreground(colorStatusFg).
			PaddingLeft(1).
			PaddingRight(1)

	toastStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	toastErrStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	searchPromptStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	helpDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 3)

	rankTopStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)
)

func hotnessColor(score float64) lipgloss.AdaptiveColor {
	switch hotness.LevelOf(score) {
	case hotness.VeryHot:
		return colorRed
	case hotness.Hot:
		return colorOrange
	case hotness.Warm:
		return colorYellow
	case hotness.Cool:
		return colorBlue
	}
	return colorDim
}

func hotnessBadge(score float64) string {
	return lipgloss.NewStyle().Foreground(hotnessColor(score)).Bold(true).Render(hotness.Label(score))
}

func sentimentStyle(s api.Sentiment) lipgloss.Style {
	switch s {
	case api.SentimentPositive:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case api.SentimentNegative:
		return lipgloss.NewStyle().Foreground(colorRed)
	}
	return lipgloss.NewStyle().Foreground(colorDim)
}
