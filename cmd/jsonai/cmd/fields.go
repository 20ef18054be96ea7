package cmd

import (
	"github.com/spf13/cobra"
)

func newFieldsCmd(a *app) *cobra.Command {
	var asSchema bool

	cmd := &cobra.Command{
		Use:   "fields [--schema] INPUT",
		Short: "List the field paths of a JSON document or schema",
		Long: `List every object key path in a JSON document as dotted paths, sorted.
Arrays contribute the paths of their first element.

With --schema, INPUT is read as a JSON Schema and the property paths it
declares are listed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := a.searcher(cmd).Fields(cmd.Context(), args[0], asSchema)
			if err != nil {
				return err
			}
			return a.writer(cmd).JSON(paths)
		},
	}

	cmd.Flags().BoolVar(&asSchema, "schema", false, "Treat INPUT as a JSON Schema")
	return cmd
}
