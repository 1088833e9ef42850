package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// KeywordSubmittedMsg is emitted when the search bar is submitted with text.
type KeywordSubmittedMsg struct {
	Keyword string
}

// SearchBar is a submit-triggered keyword input: the keyword is reported
// only on Enter, trimmed, and only when it is not blank.
type SearchBar struct {
	input    textinput.Model
	disabled bool
}

// NewSearchBar creates a focused search bar.
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Enter a keyword (e.g. sci-fi, thriller)"
	ti.Prompt = "🔍 "
	ti.CharLimit = 200
	ti.Focus()
	return SearchBar{input: ti}
}

// SetDisabled blocks input while a search is in flight.
func (s *SearchBar) SetDisabled(disabled bool) { s.disabled = disabled }

// Disabled reports whether input is blocked.
func (s SearchBar) Disabled() bool { return s.disabled }

// Focus gives the input the cursor.
func (s *SearchBar) Focus() tea.Cmd { return s.input.Focus() }

// Blur removes the cursor.
func (s *SearchBar) Blur() { s.input.Blur() }

// Focused reports whether the input has the cursor.
func (s SearchBar) Focused() bool { return s.input.Focused() }

// Value returns the raw text.
func (s SearchBar) Value() string { return s.input.Value() }

// SetWidth resizes the input.
func (s *SearchBar) SetWidth(w int) { s.input.Width = w }

// Update handles typing and submission.
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	if s.disabled {
		return s, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		keyword := strings.TrimSpace(s.input.Value())
		if keyword == "" {
			return s, nil
		}
		return s, func() tea.Msg { return KeywordSubmittedMsg{Keyword: keyword} }
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// View renders the input with a submit hint.
func (s SearchBar) View() string {
	hint := styleDim.Render("  enter: search")
	if s.disabled {
		return styleDim.Render(s.input.View())
	}
	return s.input.View() + hint
}
