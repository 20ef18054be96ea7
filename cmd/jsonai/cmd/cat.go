package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
	"github.com/Aman-CERP/jsonai/internal/loader"
	"github.com/Aman-CERP/jsonai/internal/record"
)

func newCatCmd(a *app) *cobra.Command {
	var pointer string

	cmd := &cobra.Command{
		Use:   "cat INPUT [-p POINTER]",
		Short: "Print a JSON document or the value at a pointer",
		Long: `Print a JSON document, or with -p the value at a JSON Pointer.

Pointers are the ones search prints: "/" is the whole document, and
"/users/0/name" walks keys and array indexes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loader.ReadInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			value := doc.Value
			if pointer != "" {
				v, ok := record.Resolve(doc.Value, pointer)
				if !ok {
					return jerrors.PointerError(fmt.Sprintf("pointer %s not found in %s", pointer, doc.File), nil)
				}
				value = v
			}
			return a.writer(cmd).JSON(value)
		},
	}

	cmd.Flags().StringVarP(&pointer, "pointer", "p", "", "JSON Pointer of the value to print")
	return cmd
}
