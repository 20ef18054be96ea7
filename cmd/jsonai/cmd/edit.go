package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/loader"
	"github.com/Aman-CERP/jsonai/internal/mutate"
)

// editOptions holds the flags shared by the editing commands.
type editOptions struct {
	output string
	dryRun bool
}

func (o *editOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.output, "output", "", "Write the result to this file instead of FILE")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Print the result instead of writing it")
}

const pointerHelp = `POINTER is an RFC 6901 JSON Pointer: "" is the whole document and
"/a/0" is the first element of key "a".`

func newSetCmd(a *app) *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "set FILE POINTER VALUE",
		Short: "Replace an existing value",
		Long: `Replace the value at POINTER with VALUE, parsed as JSON.
The target must exist; use add to create new keys.

` + pointerHelp,
		Example: `  jsonai set config.json /server/port 8080
  jsonai set config.json /name '"api"' --dry-run`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := mutate.ParseValue(args[2])
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], opts, func(doc any) (any, error) {
				return mutate.Set(doc, args[1], value)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "add FILE POINTER VALUE",
		Short: "Add a value (RFC 6902 add)",
		Long: `Add VALUE, parsed as JSON, at POINTER. An existing key is replaced,
an array index inserts before that element and a final "-" appends.

` + pointerHelp,
		Example: `  jsonai add users.json /users/- '{"name":"carol"}'`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := mutate.ParseValue(args[2])
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], opts, func(doc any) (any, error) {
				return mutate.Add(doc, args[1], value)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "delete FILE POINTER",
		Short: "Remove a value",
		Long: `Remove the value at POINTER. The whole document cannot be deleted.

` + pointerHelp,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], opts, func(doc any) (any, error) {
				return mutate.Delete(doc, args[1])
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newPatchCmd(a *app) *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "patch FILE [PATCHFILE|-]",
		Short: "Apply an RFC 6902 JSON Patch",
		Long: `Apply a JSON Patch document read from PATCHFILE, or stdin when it is
omitted or "-". Nothing is written unless every operation succeeds.`,
		Example: `  echo '[{"op":"replace","path":"/a","value":2}]' | jsonai patch doc.json`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := loader.StdinToken
			if len(args) == 2 {
				source = args[1]
			}
			patch, err := readPatch(source, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], opts, func(doc any) (any, error) {
				return mutate.Patch(doc, patch)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func readPatch(source string, stdin io.Reader) ([]byte, error) {
	if source == loader.StdinToken {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, jerrors.InputError("failed to read patch from stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, jerrors.InputError(fmt.Sprintf("failed to read patch file %s", source), err)
	}
	return data, nil
}

func (a *app) edit(cmd *cobra.Command, file string, opts editOptions, edit mutate.Edit) error {
	return mutate.NewEditor(cmd.OutOrStdout(), a.logger).Apply(file, edit, mutate.Options{
		Output:  opts.output,
		DryRun:  opts.dryRun,
		Compact: a.compactFiles(),
	})
}
