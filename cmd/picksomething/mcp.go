package main

import (
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/PickSomething/internal/config"
	mcpserver "github.com/vadimtrunov/PickSomething/internal/mcp"
)

// newMCPServeCmd returns the "mcp-serve" subcommand.
// It serves the recommend, search and render_card tools over stdin/stdout.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-serve",
		Short: "Start MCP server over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// stdout carries the protocol, so logs go to stderr.
			logger := config.SetupLogger(cfg.App.LogLevel, nil)

			svc := initServices(cfg, logger)
			defer func() { _ = svc.Close() }()

			srv := mcpserver.NewServer(svc.search, version, logger)
			return srv.ServeStdio(cmd.Context())
		},
	}
}
