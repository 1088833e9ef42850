package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/PickSomething/internal/card"
	"github.com/vadimtrunov/PickSomething/internal/core"
	"github.com/vadimtrunov/PickSomething/internal/frontend/tui"
	"github.com/vadimtrunov/PickSomething/internal/session"
)

func newPickCmd() *cobra.Command {
	var (
		category string
		plain    bool
	)
	cmd := &cobra.Command{
		Use:   "pick [keyword]",
		Short: "Print one random recommendation",
		Long:  "Search a single category for the keyword and print one random match.",
		Example: `  picksomething pick sci-fi
  picksomething pick --category book "space opera"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := core.ParseCategory(category)
			if err != nil {
				return err
			}
			return runPick(cmd, strings.Join(args, " "), cat, plain)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "k", string(core.CategoryMovie), "movie, tv or book")
	cmd.Flags().BoolVar(&plain, "plain", false, "print without colors or spinner")
	return cmd
}

func runPick(cmd *cobra.Command, keyword string, cat core.Category, plain bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := interactiveLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	svc := initServices(cfg, logger)
	defer func() { _ = svc.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess := session.New(svc.search, logger)
	sess.SetKeyword(keyword)

	if plain {
		res := pickOnce(ctx, sess, cat)
		return printPlain(os.Stdout, res)
	}

	p := tea.NewProgram(newPickModel(ctx, sess, cat))
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("run pick: %w", err)
	}
	pm, ok := m.(pickModel)
	if !ok {
		return fmt.Errorf("unexpected model type from tea program")
	}
	return pm.result.err
}

// pickResultMsg carries the outcome of a pick back to the TUI.
type pickResultMsg struct {
	card   *card.Card
	notice *core.Notice
	err    error
}

// pickOnce runs the selection and builds the card for the result.
func pickOnce(ctx context.Context, sess *session.Session, cat core.Category) pickResultMsg {
	out := sess.Select(ctx, cat)
	if out.Notice != nil {
		return pickResultMsg{notice: out.Notice}
	}
	c, err := card.Build(out.Recommendation)
	if err != nil {
		return pickResultMsg{err: err}
	}
	return pickResultMsg{card: &c}
}

// printPlain writes the result without styling.
func printPlain(w io.Writer, res pickResultMsg) error {
	switch {
	case res.err != nil:
		return res.err
	case res.notice != nil:
		_, err := fmt.Fprintf(w, "%s: %s\n", res.notice.Title, res.notice.Description)
		return err
	}
	c := res.card
	var sb strings.Builder
	sb.WriteString(c.Title + "\n")
	for _, d := range c.Details {
		sb.WriteString(d.String() + "\n")
	}
	sb.WriteString("\n" + c.Description + "\n\n")
	sb.WriteString(c.Primary.Label + ": " + c.Primary.URL + "\n")
	sb.WriteString(c.Secondary.Label + ": " + c.Secondary.URL + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

type pickModel struct {
	ctx      context.Context
	session  *session.Session
	category core.Category
	spinner  spinner.Model
	result   pickResultMsg
	done     bool
}

func newPickModel(ctx context.Context, sess *session.Session, cat core.Category) pickModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo
	return pickModel{
		ctx:      ctx,
		session:  sess,
		category: cat,
		spinner:  s,
	}
}

func (m pickModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.pick())
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case pickResultMsg:
		m.result = msg
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m pickModel) View() string {
	if !m.done {
		return m.spinner.View() + styleDim.Render(" Finding the perfect recommendation...") + "\n"
	}
	switch {
	case m.result.err != nil:
		return styleError.Render("Error: "+m.result.err.Error()) + "\n"
	case m.result.notice != nil:
		return renderNotice(m.result.notice) + "\n"
	case m.result.card != nil:
		return tui.RenderCard(*m.result.card) + "\n"
	}
	return ""
}

func (m pickModel) pick() tea.Cmd {
	return func() tea.Msg {
		return pickOnce(m.ctx, m.session, m.category)
	}
}

func renderNotice(n *core.Notice) string {
	style := styleWarn
	switch n.Kind {
	case core.NoticeError:
		style = styleError
	case core.NoticeEmpty:
		style = styleInfo
	}
	return style.Render(n.Title) + "\n" + styleDim.Render(n.Description)
}
