// Package tui is the terminal frontend: a search bar, one button per
// category, and a recommendation card, driven by a session.Session.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/PickSomething/internal/core"
)

// Lipgloss styles shared by the components.
var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	styleSubtitle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleInfo     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleWarn     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleLink     = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 2).
			Align(lipgloss.Center)
)

type categoryTheme struct {
	accent lipgloss.Color
	icon   string
	label  string
}

var themes = map[core.Category]categoryTheme{
	core.CategoryMovie: {accent: lipgloss.Color("#E11D48"), icon: "🎬", label: "Movie"},
	core.CategoryTV:    {accent: lipgloss.Color("#7C3AED"), icon: "📺", label: "Tv"},
	core.CategoryBook:  {accent: lipgloss.Color("#059669"), icon: "📖", label: "Book"},
}

func themeFor(c core.Category) categoryTheme {
	if t, ok := themes[c]; ok {
		return t
	}
	return categoryTheme{accent: lipgloss.Color("8"), label: c.String()}
}

// noticeStyle picks the toast colour for a notice kind.
func noticeStyle(kind core.NoticeKind) lipgloss.Style {
	switch kind {
	case core.NoticeError:
		return styleError
	case core.NoticeWarning:
		return styleWarn
	default:
		return styleInfo
	}
}
