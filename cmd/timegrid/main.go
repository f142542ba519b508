// Package main is the entry point for the timegrid viewer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/timegrid/internal/app"
	"github.com/dshills/timegrid/internal/render/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options
	SVGPath     string
	ShowVersion bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.ShowVersion {
		fmt.Fprintf(stdout, "timegrid %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	// Piped output gets SVG instead of the terminal view.
	if opts.SVGPath == "" && !isTerminal(stdout) {
		opts.SVGPath = "-"
	}
	if opts.SVGPath != "" {
		return export(opts, stdout, stderr)
	}
	return view(opts, stderr)
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("timegrid", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.SVGPath, "svg", "", "Write SVG to `file` (\"-\" for stdout) instead of opening the viewer")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.Watch, "watch", false, "Reload when the document or its CSV files change")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "timegrid - timeline viewer for time-region documents\n\n")
		fmt.Fprintf(stderr, "Usage: timegrid [options] document.yaml\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  timegrid passes.yaml                 Open the viewer\n")
		fmt.Fprintf(stderr, "  timegrid -watch passes.yaml          Reload on change\n")
		fmt.Fprintf(stderr, "  timegrid -svg passes.svg passes.yaml Export SVG\n")
		fmt.Fprintf(stderr, "  timegrid passes.yaml > passes.svg    Export SVG to stdout\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.ShowVersion {
		return opts, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errors.New("expected one document")
	}
	opts.DocumentPath = fs.Arg(0)
	return opts, nil
}

func export(opts cliOptions, stdout, stderr io.Writer) int {
	opts.LogOutput = stderr
	a, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	if opts.SVGPath == "-" {
		err = a.ExportSVG(stdout)
	} else {
		err = a.ExportSVGFile(opts.SVGPath)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func view(opts cliOptions, stderr io.Writer) int {
	opts.Interactive = true
	a, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer a.Close()

	termBackend, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				termBackend.PostEvent(backend.InterruptEvent(app.ReloadRequest{}))
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := a.Run(ctx, termBackend); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
