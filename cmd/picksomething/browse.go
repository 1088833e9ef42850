package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/PickSomething/internal/frontend/tui"
	"github.com/vadimtrunov/PickSomething/internal/session"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive recommendation page",
		Long:  "Type a keyword, choose Movie, TV or Book, and get a random recommendation card.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd)
		},
	}
}

// runBrowse initializes services and starts the Bubble Tea page.
func runBrowse(cmd *cobra.Command) error {
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

	p := tea.NewProgram(tui.New(ctx, session.New(svc.search, logger)), tea.WithAltScreen())

	// Bridge OS signal cancellation into the Bubble Tea event loop.
	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browse: %w", err)
	}
	return nil
}
