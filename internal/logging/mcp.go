package logging

import (
	"log/slog"
)

// SetupMCPMode initializes logging for the MCP server.
// stdout carries JSON-RPC exclusively, so logs only go to the file.
// An empty path selects MCPLogPath.
func SetupMCPMode(level, path string) (*slog.Logger, func(), error) {
	if path == "" {
		path = MCPLogPath()
	}
	cfg := Config{
		Level:         level,
		FilePath:      path,
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("mcp_logging_initialized",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level))

	return logger, cleanup, nil
}
