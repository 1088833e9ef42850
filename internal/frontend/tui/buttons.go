package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/PickSomething/internal/core"
)

// CategorySelectedMsg is emitted when a category button is activated.
type CategorySelectedMsg struct {
	Category core.Category
}

// CategoryButtons renders one button per category. Buttons are disabled
// while no keyword is set or while a search is in flight.
type CategoryButtons struct {
	categories []core.Category
	cursor     int
	focused    bool
	selected   core.Category
	loading    bool
	disabled   bool
	spinner    string
}

// NewCategoryButtons creates buttons for every category in display order.
func NewCategoryButtons() CategoryButtons {
	return CategoryButtons{categories: core.Categories(), disabled: true}
}

// SetState syncs the buttons with the page state.
func (b *CategoryButtons) SetState(selected core.Category, loading, disabled bool) {
	b.selected = selected
	b.loading = loading
	b.disabled = disabled
}

// SetSpinner sets the frame shown on the selected button while loading.
func (b *CategoryButtons) SetSpinner(frame string) { b.spinner = frame }

// SetFocused toggles the cursor highlight.
func (b *CategoryButtons) SetFocused(f bool) { b.focused = f }

// Actionable reports whether pressing a button starts a search.
func (b CategoryButtons) Actionable() bool { return !b.disabled && !b.loading }

// Cursor returns the category under the cursor.
func (b CategoryButtons) Cursor() core.Category { return b.categories[b.cursor] }

// Update moves the cursor and activates buttons. Activation is reported even
// when no keyword is set so the page can explain why nothing happened; it is
// swallowed while loading.
func (b CategoryButtons) Update(msg tea.Msg) (CategoryButtons, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || b.loading {
		return b, nil
	}
	switch key.String() {
	case "left", "h":
		if b.cursor > 0 {
			b.cursor--
		}
	case "right", "l":
		if b.cursor < len(b.categories)-1 {
			b.cursor++
		}
	case "enter", " ":
		return b, b.activate(b.cursor)
	case "1", "2", "3":
		i := int(key.String()[0] - '1')
		if i < len(b.categories) {
			b.cursor = i
			return b, b.activate(i)
		}
	}
	return b, nil
}

func (b CategoryButtons) activate(i int) tea.Cmd {
	cat := b.categories[i]
	return func() tea.Msg { return CategorySelectedMsg{Category: cat} }
}

// View renders the button row.
func (b CategoryButtons) View() string {
	buttons := make([]string, 0, len(b.categories))
	for i, c := range b.categories {
		buttons = append(buttons, b.renderButton(i, c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (b CategoryButtons) renderButton(i int, c core.Category) string {
	theme := themeFor(c)
	label := theme.icon + " " + theme.label
	if b.loading && c == b.selected && b.spinner != "" {
		label = strings.TrimSpace(b.spinner)
	}

	style := lipgloss.NewStyle().
		Padding(0, 2).
		MarginRight(1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.accent).
		Foreground(lipgloss.Color("15")).
		Background(theme.accent)

	switch {
	case b.disabled || b.loading:
		style = style.Background(lipgloss.Color("236")).Foreground(lipgloss.Color("8"))
	case c == b.selected:
		style = style.Bold(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("15"))
	}
	if b.focused && i == b.cursor && b.Actionable() {
		style = style.Underline(true)
	}
	if c == b.selected && b.loading {
		style = style.BorderForeground(lipgloss.Color("15"))
	}
	return style.Render(label)
}
