// Package cmd provides the CLI commands for jsonai.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/jsonai/internal/config"
	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/loader"
	"github.com/Aman-CERP/jsonai/internal/logging"
	"github.com/Aman-CERP/jsonai/internal/output"
	"github.com/Aman-CERP/jsonai/internal/profiling"
	"github.com/Aman-CERP/jsonai/pkg/searcher"
	"github.com/Aman-CERP/jsonai/pkg/version"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitNoMatches = 1
	ExitError     = 2
)

// errNoMatches ends a search that found nothing. It is not printed.
var errNoMatches = errors.New("no matches")

// globalOptions holds the persistent flags.
type globalOptions struct {
	pretty     bool
	compact    bool
	debug      bool
	logFile    string
	configPath string
	profile    profiling.Options
}

// app is the state shared by all commands of one invocation.
type app struct {
	opts    globalOptions
	cfg     *config.Config
	logger  *slog.Logger
	cleanup func()
	prof    *profiling.Session
}

// NewRootCmd creates the root command for the jsonai CLI.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{
		cfg:     config.NewConfig(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		cleanup: func() {},
	}

	cmd := &cobra.Command{
		Use:   "jsonai",
		Short: "Search and edit JSON files with bounded, agent-friendly output",
		Long: `jsonai finds the JSON objects that match a query across files,
directories, glob patterns or stdin, and prints a bounded JSON response.

When a query matches more objects than the threshold, it returns a query
plan (field facets and narrower commands) instead of the results.

Exit codes: 0 matches found or success, 1 no matches, 2 error.`,
		Version:           version.Short(),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	cmd.SetVersionTemplate("jsonai version {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.BoolVar(&a.opts.pretty, "pretty", false, "Indent JSON written to stdout")
	pf.BoolVar(&a.opts.compact, "compact", false, "Write edited files without indentation")
	pf.BoolVar(&a.opts.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&a.opts.logFile, "log-file", "", "Also write JSON logs to this rotating file")
	pf.StringVar(&a.opts.configPath, "config", "", "Config file (overrides user and project config)")
	pf.StringVar(&a.opts.profile.CPU, "profile-cpu", "", "Write a CPU profile to file")
	pf.StringVar(&a.opts.profile.Heap, "profile-mem", "", "Write a heap profile to file on exit")
	pf.StringVar(&a.opts.profile.Trace, "profile-trace", "", "Write an execution trace to file")
	for _, name := range []string{"profile-cpu", "profile-mem", "profile-trace"} {
		_ = pf.MarkHidden(name)
	}

	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newFieldsCmd(a))
	cmd.AddCommand(newCatCmd(a))
	cmd.AddCommand(newSetCmd(a))
	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newDeleteCmd(a))
	cmd.AddCommand(newPatchCmd(a))
	cmd.AddCommand(newQueryCmd(a))
	cmd.AddCommand(newMCPCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd, a
}

// setup loads configuration and installs logging before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	cfg, err := config.Load(dir, a.opts.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.opts.profile.Enabled() {
		prof, err := profiling.Start(a.opts.profile)
		if err != nil {
			return jerrors.Wrap(jerrors.ErrCodeInvalidInput, err)
		}
		a.prof = prof
	}

	// The MCP server owns its logging: stdio carries the protocol.
	if cmd.Name() == "mcp" {
		return nil
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	if a.opts.debug {
		logCfg = logging.DebugConfig()
	}
	logCfg.FilePath = cfg.Logging.File
	if a.opts.logFile != "" {
		logCfg.FilePath = a.opts.logFile
	}

	logger, cleanup, err := logging.Setup(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return jerrors.ConfigError("failed to set up logging", err)
	}
	a.logger = logger
	a.cleanup = cleanup
	a.logger.Debug("command_started",
		slog.String("command", cmd.Name()),
		slog.String("version", version.Short()))
	return nil
}

func (a *app) close() {
	if a.prof != nil {
		if err := a.prof.Stop(); err != nil {
			a.logger.Warn("profile_write_failed", slog.String("error", err.Error()))
		}
		a.prof = nil
	}
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

// pretty reports whether stdout JSON is indented.
func (a *app) pretty() bool {
	return a.opts.pretty || a.cfg.Output.Pretty
}

// compactFiles reports whether edited files are written on one line.
func (a *app) compactFiles() bool {
	return a.opts.compact || a.cfg.Output.CompactFiles
}

func (a *app) writer(cmd *cobra.Command) *output.Writer {
	return output.New(cmd.OutOrStdout(), a.pretty())
}

func (a *app) searcher(cmd *cobra.Command) *searcher.Searcher {
	return searcher.New(
		searcher.WithStdin(cmd.InOrStdin()),
		searcher.WithLogger(a.logger),
		searcher.WithLoaderOptions(loader.Options{
			ExcludePatterns:  a.cfg.Paths.Exclude,
			RespectGitignore: a.cfg.Paths.RespectGitignore,
		}),
	)
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, a := newRootCmd()
	defer a.close()

	return exitCode(cmd.ErrOrStderr(), cmd.ExecuteContext(ctx))
}

// exitCode maps a command error to an exit code, printing real errors.
func exitCode(stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errNoMatches):
		return ExitNoMatches
	}
	if jerrors.GetCode(err) == "" {
		// Flag and argument errors from cobra.
		err = jerrors.Wrap(jerrors.ErrCodeInvalidInput, err)
	}
	fmt.Fprint(stderr, jerrors.FormatForCLI(err))
	return ExitError
}
