package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.jsonai/logs).
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "jsonai", "logs")
	}
	return filepath.Join(home, ".jsonai", "logs")
}

// DefaultLogPath returns the default CLI log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "jsonai.log")
}

// MCPLogPath returns the log file used by the MCP server.
func MCPLogPath() string {
	return filepath.Join(DefaultLogDir(), "mcp.log")
}

// EnsureLogDir creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	return os.MkdirAll(DefaultLogDir(), 0o755)
}
