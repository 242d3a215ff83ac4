// Command ironbank inspects the locally saved bank snapshot.
//
// Usage:
//
//	ironbank show [-title TITLE]   render the saved snapshot as a table
//	ironbank path                  print where the snapshot file lives
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank/filecodec"
	"github.com/AntonStoeckl/ironbank-snapshot-go/display/textpanel"
	"github.com/AntonStoeckl/ironbank-snapshot-go/internal/config"
)

const (
	commandShow = "show"
	commandPath = "path"
	usage       = "usage: ironbank show [-title TITLE] | ironbank path"
)

// ErrUnknownCommand is returned for a missing or unsupported subcommand.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		config.Exitf("ironbank: %v", err)
	}

	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, ErrUnknownCommand) {
			config.Exitf("%v\n%s", err, usage)
		}
		config.Exitf("ironbank: %v", err)
	}
}

func run(args []string, stdout io.Writer, logger *slog.Logger) error {
	if len(args) == 0 {
		return ErrUnknownCommand
	}

	switch args[0] {
	case commandShow:
		return runShow(args[1:], stdout, logger)
	case commandPath:
		return runPath(stdout, logger)
	default:
		return errors.Join(ErrUnknownCommand, fmt.Errorf("command %q", args[0]))
	}
}

func runShow(args []string, stdout io.Writer, logger *slog.Logger) error {
	flags := flag.NewFlagSet(commandShow, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	title := flags.String("title", "Group Ironman Bank", "heading printed above the table")
	if err := flags.Parse(args); err != nil {
		return errors.Join(ErrUnknownCommand, err)
	}

	codec, err := filecodec.NewCodec(filecodec.WithLogger(logger))
	if err != nil {
		return err
	}

	panel, err := textpanel.New(stdout, textpanel.WithTitle(*title))
	if err != nil {
		return err
	}
	defer func() { _ = panel.Close() }()

	panel.Render(codec.Load())

	return nil
}

func runPath(stdout io.Writer, logger *slog.Logger) error {
	codec, err := filecodec.NewCodec(filecodec.WithLogger(logger))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, codec.Path())

	return err
}
