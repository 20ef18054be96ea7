package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/jsonai/internal/config"
	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Inspect and create jsonai configuration.

Configuration precedence (lowest to highest):
  1. Built-in defaults
  2. User config (~/.config/jsonai/config.yaml)
  3. Project config (.jsonai.yaml in the working directory)
  4. Environment variables (JSONAI_*)
  5. The --config file
  6. Command-line flags`,
		Example: `  jsonai config init
  jsonai config show --json
  jsonai config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default user configuration",
		Long: `Write the built-in defaults to the user config file and print its path.
An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GetUserConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return jerrors.New(jerrors.ErrCodeConfigInvalid, fmt.Sprintf("user config already exists at %s", path), nil).
					WithSuggestion("use --force to overwrite it with the defaults")
			}
			if err := config.NewConfig().WriteYAML(path); err != nil {
				return jerrors.ConfigError("failed to write user config", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing user config")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  `Print the configuration after merging every source, as YAML or JSON.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonOutput {
				return a.writer(cmd).JSON(a.cfg)
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return jerrors.InternalError("failed to marshal config", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print as JSON")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}
