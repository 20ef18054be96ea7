package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/logging"
	"github.com/Aman-CERP/jsonai/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve search and fields as MCP tools over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the
search and fields tools. Logs go to ~/.jsonai/logs/mcp.log, or the
--log-file path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := a.cfg.Logging.Level
			if a.opts.debug {
				level = "debug"
			}
			path := a.opts.logFile
			if path == "" {
				path = a.cfg.Logging.File
			}
			if path == "" {
				if err := logging.EnsureLogDir(); err != nil {
					return jerrors.ConfigError("failed to create log directory", err)
				}
			}

			logger, cleanup, err := logging.SetupMCPMode(level, path)
			if err != nil {
				return jerrors.ConfigError("failed to set up MCP logging", err)
			}
			a.logger = logger
			a.cleanup = cleanup

			srv, err := mcp.NewServer(a.searcher(cmd), a.cfg, logger)
			if err != nil {
				return jerrors.InternalError("failed to create MCP server", err)
			}
			logger.Info("mcp_server_ready", slog.String("transport", "stdio"))
			return srv.Serve(cmd.Context(), "stdio")
		},
	}
}
