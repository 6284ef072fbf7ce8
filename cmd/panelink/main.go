// Package main is the entry point for panelink.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/panelink/internal/app"
	"github.com/dshills/panelink/internal/logging"
	"github.com/dshills/panelink/internal/ui"
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
	opts, logFile, ok := parseFlags()
	if !ok {
		return 2
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		opts.LogOutput = f
	} else if !opts.Headless {
		// Log lines would corrupt the terminal screen.
		opts.LogOutput = io.Discard
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	if opts.Headless {
		return runHeadless(application)
	}

	term, err := ui.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetTerminal(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set terminal: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		<-signals
		application.Quit()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runHeadless runs the startup script and prints the resulting layout.
func runHeadless(application *app.Application) int {
	status := 0
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		status = 1
	}
	if err := application.Dump(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return status
}

func parseFlags() (app.Options, string, bool) {
	var opts app.Options
	var logFile string
	var showVersion bool
	var noWatch bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to the settings file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to the settings file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Write logs to this file")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua script to run at startup")
	flag.BoolVar(&opts.Headless, "headless", false, "Run the script without a terminal and print the layout")
	flag.BoolVar(&noWatch, "no-watch", false, "Do not reload the settings file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "panelink - linked panes that follow each other\n\n")
		fmt.Fprintf(os.Stderr, "Usage: panelink [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  panelink notes.md                       Open a file\n")
		fmt.Fprintf(os.Stderr, "  panelink -script init.lua               Run a startup script\n")
		fmt.Fprintf(os.Stderr, "  panelink -headless -script layout.lua   Print the layout a script builds\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("panelink %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" && !logging.ValidLevel(opts.LogLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		return opts, "", false
	}
	if opts.Headless && opts.ScriptPath == "" && flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: -headless needs -script or files\n")
		return opts, "", false
	}

	opts.Watch = !noWatch
	opts.Files = flag.Args()
	return opts, logFile, true
}
