package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/PickSomething/internal/card"
	"github.com/vadimtrunov/PickSomething/internal/core"
	"github.com/vadimtrunov/PickSomething/internal/session"
)

const loadingText = "Finding the perfect recommendation..."

type focus int

const (
	focusInput focus = iota
	focusButtons
)

// searchResultMsg carries a finished search back to the event loop.
type searchResultMsg struct {
	ticket  session.Ticket
	results []core.Recommendation
	err     error
}

// Model is the Bubble Tea model for the whole page.
type Model struct {
	ctx     context.Context
	session *session.Session
	search  SearchBar
	buttons CategoryButtons
	spinner spinner.Model
	focus   focus
	notice  *core.Notice
	width   int
}

// New creates the page model.
func New(ctx context.Context, sess *session.Session) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo

	m := Model{
		ctx:     ctx,
		session: sess,
		search:  NewSearchBar(),
		buttons: NewCategoryButtons(),
		spinner: s,
	}
	m.sync()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return m.search.Focus()
}

// Update handles input and search results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.search.SetWidth(min(msg.Width-20, 60))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case KeywordSubmittedMsg:
		m.session.SetKeyword(msg.Keyword)
		m.notice = nil
		m.setFocus(focusButtons)
		m.sync()
		return m, nil

	case CategorySelectedMsg:
		return m.selectCategory(msg.Category)

	case searchResultMsg:
		notice, applied := m.session.Complete(msg.ticket, msg.results, msg.err)
		if applied {
			m.notice = notice
		}
		m.sync()
		return m, nil

	case spinner.TickMsg:
		if !m.session.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.sync()
		return m, cmd
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey routes keys to the focused component after the global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.focus == focusInput {
			m.setFocus(focusButtons)
		} else {
			m.setFocus(focusInput)
		}
		return m, nil
	}

	if m.focus == focusInput {
		if msg.Type == tea.KeyEsc {
			m.setFocus(focusButtons)
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "/", "i":
		m.setFocus(focusInput)
		return m, nil
	case "a":
		snap := m.session.Snapshot()
		if snap.State != session.StateResolved {
			return m, nil
		}
		return m.selectCategory(snap.Category)
	}

	var cmd tea.Cmd
	m.buttons, cmd = m.buttons.Update(msg)
	return m, cmd
}

// selectCategory starts an asynchronous search for category.
func (m Model) selectCategory(category core.Category) (tea.Model, tea.Cmd) {
	if m.session.Snapshot().Loading {
		return m, nil
	}
	ticket, notice := m.session.Begin(category)
	m.notice = notice
	m.sync()
	if notice != nil {
		return m, nil
	}
	return m, tea.Batch(m.fetch(ticket), m.spinner.Tick)
}

// fetch returns a command that runs the search off the event loop.
func (m Model) fetch(t session.Ticket) tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		results, err := sess.Fetch(ctx, t)
		return searchResultMsg{ticket: t, results: results, err: err}
	}
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.search.Focus()
	} else {
		m.search.Blur()
	}
	m.buttons.SetFocused(f == focusButtons)
}

// sync copies the session state into the components.
func (m *Model) sync() {
	snap := m.session.Snapshot()
	m.search.SetDisabled(snap.Loading)
	m.buttons.SetState(snap.Category, snap.Loading, snap.Keyword == "")
	m.buttons.SetSpinner(m.spinner.View())
}

// View renders the page.
func (m Model) View() string {
	snap := m.session.Snapshot()

	sections := []string{
		styleTitle.Render("What Should I Watch or Read?"),
		styleSubtitle.Render("Enter a keyword to get a random movie, TV show, or book recommendation"),
		"",
		m.search.View(),
		"",
		m.buttons.View(),
		"",
		m.body(snap),
	}
	if m.notice != nil {
		sections = append(sections, "", m.renderNotice())
	}
	sections = append(sections, "", m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) body(snap session.Snapshot) string {
	switch snap.State {
	case session.StateLoading:
		return m.spinner.View() + " " + styleSubtitle.Render(loadingText)
	case session.StateEmpty:
		return stylePanel.Render(styleTitle.Render("No results found") + "\n" +
			styleSubtitle.Render("Try a different keyword or category."))
	case session.StateResolved:
		c, err := card.Build(snap.Recommendation)
		if err != nil {
			return styleError.Render(err.Error())
		}
		header := lipgloss.NewStyle().Bold(true).Render("Your Recommendation") +
			styleDim.Render("   a: Get Another")
		return header + "\n" + RenderCard(c)
	default:
		return stylePanel.Render(styleTitle.Render("Ready to discover something new?") + "\n" +
			styleSubtitle.Render("Enter a keyword above and select a category to get started."))
	}
}

func (m Model) renderNotice() string {
	n := m.notice
	return noticeStyle(n.Kind).Render(n.Title) + " " + styleSubtitle.Render(n.Description)
}

func (m Model) footer() string {
	keys := "tab: switch focus  ←/→: move  enter/1-3: pick category  a: another  q: quit"
	return styleDim.Render(keys) + "\n" +
		styleDim.Render(fmt.Sprintf("© %d PickSomething.app. All rights reserved.", time.Now().Year())) + "\n" +
		styleDim.Render("Powered by TMDb and Google Books APIs")
}
