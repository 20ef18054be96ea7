// Package main provides the entry point for the jsonai CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/jsonai/cmd/jsonai/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
