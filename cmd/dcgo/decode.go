package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brentfarrar/dcgo"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/internal/logging"
	"github.com/brentfarrar/dcgo/jsontext"
)

func newDecodeCommand() *cobra.Command {
	var watch bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "decode a JSON document and re-emit it, indented",
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

			if !watch || path == "" {
				return decodeOnce(path, logger)
			}
			return decodeWatch(path, logger)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "re-decode whenever the input file changes")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "use a development (non-JSON) logger")
	return cmd
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func decodeOnce(path string, logger *zap.Logger) error {
	src, err := readInput(path)
	if err != nil {
		return err
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

	w := jsontext.NewWriter(jsontext.Default)
	if err := dcgo.Serialize(&doc, w); err != nil {
		return err
	}
	fmt.Println(w.String())
	return nil
}

func decodeWatch(path string, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	if err := decodeOnce(path, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := decodeOnce(path, logger); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
