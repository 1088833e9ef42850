package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/PickSomething/internal/card"
)

const cardWidth = 64

// RenderCard draws a recommendation card bordered in its category accent.
func RenderCard(c card.Card) string {
	theme := themeFor(c.Category)

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.accent).Render(theme.icon + " " + c.Title))
	sb.WriteString("\n\n")
	for _, d := range c.Details {
		sb.WriteString(styleDim.Render(d.Label+": ") + d.Value + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Width(cardWidth - 6).Render(c.Description))
	sb.WriteString("\n\n")
	sb.WriteString(renderLink(c.Primary))
	if c.Secondary.URL != "" {
		sb.WriteString("\n" + renderLink(c.Secondary))
	}
	sb.WriteString("\n" + styleDim.Render("Image: "+c.ImageURL))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.accent).
		Padding(1, 2).
		Width(cardWidth).
		Render(sb.String())
}

func renderLink(l card.Link) string {
	return l.Label + ": " + styleLink.Render(l.URL)
}
