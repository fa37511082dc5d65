// Package main is the entry point for the termfix terminal shim.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/termfix/internal/config"
	"github.com/dshills/termfix/internal/event"
	"github.com/dshills/termfix/internal/lifecycle"
	"github.com/dshills/termfix/internal/script"
	"github.com/dshills/termfix/internal/session"
	"github.com/dshills/termfix/internal/terminal"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	ScriptPath string
	Probe      bool
	Watch      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	det := terminal.NewDetector(terminal.WithOverrides(cfg.Overrides()))

	if opts.Probe {
		probe(cfg, det)
		return 0
	}

	bus := event.NewBus()
	sess := session.New(cfg, det, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		sess.Stop()
	}()

	if opts.Watch && opts.ConfigPath != "" {
		stopWatch, err := watchConfig(opts.ConfigPath, cfg, sess)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: watch config: %v\n", err)
			return 1
		}
		defer stopWatch()
	}

	if err := sess.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig layers defaults, config file, environment, and the Lua
// script, last writer winning.
func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()

	cfg, err := config.LoadFile(opts.ConfigPath, cfg)
	if err != nil {
		return cfg, err
	}
	cfg, err = config.LoadEnv(os.LookupEnv, cfg)
	if err != nil {
		return cfg, err
	}
	if opts.ScriptPath != "" {
		cfg, err = script.Apply(cfg, opts.ScriptPath)
		if err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// watchConfig reloads the configuration file on change and re-applies the
// normal-mode cursor shape to the running session. The activated hook
// strings keep their original composition; the rest of a changed
// configuration applies on the next start.
func watchConfig(path string, base config.Config, sess *session.Session) (func(), error) {
	w, err := config.NewWatcher(path, base)
	if err != nil {
		return nil, err
	}
	go func() {
		for {
			select {
			case cfg, ok := <-w.Configs():
				if !ok {
					return
				}
				sess.ApplyShapes(cfg.NormalShape)
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "termfix: config watch: %v\n", err)
			}
		}
	}()
	return func() { _ = w.Close() }, nil
}

// probe prints what would be activated, without touching the terminal.
func probe(cfg config.Config, det *terminal.Detector) {
	fmt.Printf("terminal:     %s\n", det.Kind())
	fmt.Printf("supported:    %t\n", det.Kind().Supported())
	fmt.Printf("multiplexer:  %t\n", det.HasMultiplexer())
	fmt.Printf("interactive:  %t\n", terminal.InsideTerminal())
	fmt.Printf("fix cursor:   %t\n", cfg.FixCursor)
	fmt.Printf("fix focus:    %t\n", cfg.FixFocus)

	b := lifecycle.Builder{
		Kind:        det.Kind(),
		Multiplexed: det.HasMultiplexer(),
		NormalShape: cfg.NormalShape,
		InsertShape: cfg.InsertShape,
	}
	set := b.Build()
	fmt.Printf("startup:      %q\n", set.Startup)
	fmt.Printf("shutdown:     %q\n", set.Shutdown)
	fmt.Printf("insert enter: %q\n", set.InsertEnter)
	fmt.Printf("insert leave: %q\n", set.InsertLeave)
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.ScriptPath, "rc", "", "Path to Lua rc script")
	flag.BoolVar(&opts.Probe, "probe", false, "Print detection results and composed sequences, then exit")
	flag.BoolVar(&opts.Watch, "watch", false, "Watch the configuration file for changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Termfix - terminal focus and cursor-shape shim\n\n")
		fmt.Fprintf(os.Stderr, "Usage: termfix [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  termfix                     Run the interactive session\n")
		fmt.Fprintf(os.Stderr, "  termfix -probe              Show what would be activated\n")
		fmt.Fprintf(os.Stderr, "  termfix -c termfix.toml     Run with a configuration file\n")
		fmt.Fprintf(os.Stderr, "  termfix -rc init.lua        Run with an rc script\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Termfix %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
