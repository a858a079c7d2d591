// Package main is the entry point for the eventgate demo.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dshills/eventgate/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options
	replay    bool
	showTrace bool
}

func main() {
	os.Exit(run())
}

func run() int {
	cli := parseFlags()

	interactive := !cli.replay &&
		term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			cli.Width, cli.Height = w, h
		}
	} else {
		cli.Output = os.Stdout
	}

	application, err := app.New(cli.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if interactive {
		err = application.RunTerminal()
	} else {
		w, h := cli.Width, cli.Height
		if w <= 0 || h <= 0 {
			w, h = 80, 24
		}
		err = application.Replay(app.DemoScript(w, h))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cli.showTrace && !interactive {
		if rec := application.Recorder(); rec != nil {
			fmt.Println()
			fmt.Println(strings.Join(rec.Doc().Targets(), "\n"))
		}
	}
	return 0
}

func parseFlags() cliOptions {
	var cli cliOptions
	var showVersion bool

	flag.StringVar(&cli.ConfigPath, "config", "", "Path to a TOML or YAML configuration file")
	flag.StringVar(&cli.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&cli.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&cli.showTrace, "trace", false, "Record the dispatch trace and print it after a replay")
	flag.StringVar(&cli.TracePath, "trace-out", "", "Write trace records as JSON lines to this file")
	flag.StringVar(&cli.Script, "script", "", "Lua strategy script run before the built-in strategies")
	flag.BoolVar(&cli.replay, "replay", false, "Replay the scripted demo session instead of reading the terminal")
	flag.BoolVar(&cli.Watch, "watch", false, "Reload the log level when the config file changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "eventgate - retained-mode UI event dispatch demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: eventgate [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  eventgate                        Interactive demo in the terminal\n")
		fmt.Fprintf(os.Stderr, "  eventgate -replay -trace         Scripted session with its trace\n")
		fmt.Fprintf(os.Stderr, "  eventgate -c eventgate.toml -watch\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("eventgate %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	cli.Trace = cli.showTrace
	return cli
}
