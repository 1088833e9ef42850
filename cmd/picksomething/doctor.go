package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/PickSomething/internal/config"
	"github.com/vadimtrunov/PickSomething/internal/health"
)

var styleHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("5")).
	MarginBottom(1)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that TMDb and Google Books are reachable",
		Long:  "Probe both catalog APIs with the configured keys and report whether searches can succeed.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

func runDoctor(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := config.SetupLogger(cfg.App.LogLevel, io.Discard)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	checker := health.NewChecker(nil, logger)
	results := checker.CheckAll(ctx, health.CatalogProbes(
		cfg.TMDb.BaseURL, cfg.TMDb.APIKey,
		cfg.GoogleBooks.BaseURL, cfg.GoogleBooks.APIKey,
	))

	fmt.Println(styleHeader.Render("Catalogs"))
	failed := 0
	for _, r := range results {
		printResult(os.Stdout, r)
		if !r.Authorized {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d catalogs unavailable", failed, len(results))
	}
	return nil
}

func printResult(w io.Writer, r health.Result) {
	mark, style := "✓", styleSuccess
	switch {
	case !r.Reachable:
		mark, style = "✗", styleError
	case !r.Authorized:
		mark, style = "!", styleWarn
	}
	fmt.Fprintf(w, "%s %-13s %s\n",
		style.Render(mark),
		r.Name,
		styleDim.Render(fmt.Sprintf("%s (%s)", r.Endpoint, r.Latency.Round(time.Millisecond))),
	)
	if r.Error != "" {
		fmt.Fprintf(w, "  %s\n", style.Render(r.Error))
	}
}
