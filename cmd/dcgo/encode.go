package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/brentfarrar/dcgo"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/internal/logging"
	"github.com/brentfarrar/dcgo/jsontext"
)

func newEncodeCommand() *cobra.Command {
	var verbose bool
	var compact bool

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "decode a JSON document and re-emit it on a single line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			logger, err := logging.New(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			var src string
			if path == "" || path == "-" {
				b, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				src = string(b)
			} else {
				b, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				src = string(b)
			}

			env.StartUp(logging.NewDiagConsumer(logger))
			defer env.ShutDown()

			r := jsontext.NewReader(src, jsontext.Options{})
			defer r.AbortAndUninitialize()

			var doc any
			if err := dcgo.Deserialize(&doc, r); err != nil {
				return err
			}
			if err := r.Finish(); err != nil {
				return err
			}

			mode := jsontext.Condensed
			if compact {
				mode = jsontext.Compact
			}
			w := jsontext.NewWriter(mode)
			if err := dcgo.Serialize(&doc, w); err != nil {
				return err
			}
			fmt.Println(w.String())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "use a development (non-JSON) logger")
	cmd.Flags().BoolVar(&compact, "compact", false, "emit with no whitespace at all")
	return cmd
}
