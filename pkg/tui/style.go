package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"
	colorDim      = "#7f85a3"
)

const bordersAndPaddingWidth = 4

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorRed))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color(colorGray)).
			Padding(0, 2)
)

// sentimentColorize renders text in the color of a sentiment category.
func sentimentColorize(text string, c journal.SentimentCategory) string {
	switch c {
	case journal.SentimentPositive:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim)).Render(text)
	case journal.SentimentNegative:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return dimStyle.Render(text)
	}
}

// truncate shortens s to width columns, marking the cut with "..".
func truncate(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-2] + ".."
}

func linePointer(focused bool) string {
	if focused {
		return "> "
	}
	return "  "
}

// confirmOptions renders the Yes/No selector used by destructive prompts.
func confirmOptions(yesSelected bool) string {
	yes, no := "Yes", "No"
	if yesSelected {
		yes = dangerSelectedStyle.Render(" >" + yes)
		no = inactiveStyle.Render("  " + no)
	} else {
		yes = inactiveStyle.Render("  " + yes)
		no = selectedStyle.Render(" >" + no)
	}
	return strings.Join([]string{yes, no}, "\n")
}
