package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/jsonai/internal/filter"
	"github.com/Aman-CERP/jsonai/internal/loader"
)

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query FILTER [INPUT|-]",
		Short: "Evaluate a jq filter",
		Long: `Evaluate a jq filter against a JSON document read from INPUT, or
stdin when it is omitted or "-".

No output prints nothing, one output prints that value and several
outputs print an array.`,
		Example: `  jsonai query '.users[] | select(.age > 30) | .name' users.json
  curl -s example.com/api | jsonai query '.items | length'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := loader.StdinToken
			if len(args) == 2 {
				input = args[1]
			}

			f, err := filter.Compile(args[0])
			if err != nil {
				return err
			}
			doc, err := loader.ReadInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			outputs, err := f.Run(cmd.Context(), doc.Value)
			if err != nil {
				return err
			}

			value, ok := filter.Collapse(outputs)
			if !ok {
				return nil
			}
			return a.writer(cmd).JSON(value)
		},
	}
}
