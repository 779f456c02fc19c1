// Package main is the entry point for rangelist.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rangelist/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, printOnly := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if !printOnly {
		screen, err := tcell.NewScreen()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
			return 1
		}
		if err := application.SetScreen(screen); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to set screen: %v\n", err)
			return 1
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
	}()

	return exitCode(application.Run())
}

// exitCode maps the result of Run to a process exit status. A shutdown
// that arrives before Run starts leaves the application closed, which is
// a normal exit.
func exitCode(err error) int {
	if err == nil || errors.Is(err, app.ErrClosed) {
		return 0
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func parseFlags() (app.Options, bool) {
	var opts app.Options
	var printOnly, showVersion, showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to pipeline configuration (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to pipeline configuration (shorthand)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the source when it changes")
	flag.BoolVar(&opts.Watch, "w", false, "Reload the source when it changes (shorthand)")
	flag.IntVar(&opts.Limit, "limit", 0, "Show at most this many items")
	flag.IntVar(&opts.Limit, "n", 0, "Show at most this many items (shorthand)")
	flag.BoolVar(&printOnly, "print", false, "Print the output instead of opening the terminal view")
	flag.BoolVar(&printOnly, "p", false, "Print the output (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.MetricsAddr, "metrics", "", "Serve Prometheus metrics on this address")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rangelist - live filtered views of a text file\n\n")
		fmt.Fprintf(os.Stderr, "Usage: rangelist [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  rangelist todo.txt                 Browse a file\n")
		fmt.Fprintf(os.Stderr, "  rangelist -w -n 20 app.log         Follow the first 20 lines\n")
		fmt.Fprintf(os.Stderr, "  rangelist -c pipeline.toml -p      Print a configured pipeline\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("rangelist %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}
	if opts.Limit < 0 {
		fmt.Fprintf(os.Stderr, "Error: -limit must not be negative\n")
		os.Exit(1)
	}

	if args := flag.Args(); len(args) > 0 {
		opts.SourcePath = args[0]
	}
	return opts, printOnly
}
