// Command dcgo is a thin front end over the engine: decode reads a JSON
// document into a generic value and re-emits it indented, encode does the
// same but emits a single line (condensed, or compact with --compact),
// and --watch re-runs decode every time the input file changes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "dcgo",
		Short: "reflection-driven JSON data-interchange engine",
	}

	root.AddCommand(newDecodeCommand())
	root.AddCommand(newEncodeCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
