package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/PickSomething/internal/config"
	"github.com/vadimtrunov/PickSomething/internal/frontend/web"
)

// newServeCmd returns the "serve" subcommand for the web page and JSON API.
func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  "Serve the recommendation page on / and the JSON API under /api.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Web.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides web.port)")
	return cmd
}

func runServe(cfg *config.Config) error {
	logger := config.SetupLogger(cfg.App.LogLevel, nil)

	svc := initServices(cfg, logger)
	defer func() { _ = svc.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := web.NewServer(cfg.Web.Port, web.NewHandler(svc.search, logger), logger)
	return srv.Start(ctx)
}
