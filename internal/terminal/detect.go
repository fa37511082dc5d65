package terminal

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// Environment variables consulted during detection.
const (
	// envITermProfile is set by iTerm2 for every session.
	envITermProfile = "ITERM_PROFILE"

	// envMintty is the mintty marker variable.
	envMintty = "MINTTY"

	// envTermProgram carries the terminal program name on macOS.
	envTermProgram = "TERM_PROGRAM"

	// envTmux is set inside a tmux session.
	envTmux = "TMUX"

	// appleTerminal is the TERM_PROGRAM value for Terminal.app.
	appleTerminal = "Apple_Terminal"
)

// LookupFunc reports an environment variable's value and whether it is set.
type LookupFunc func(key string) (string, bool)

// Overrides force-assume a terminal kind regardless of what the
// environment says. Useful in tests and in environments where
// auto-detection fails.
type Overrides struct {
	AssumeITerm       bool
	AssumeMintty      bool
	AssumeTerminalApp bool
}

// Detector classifies the surrounding terminal. The classification is
// computed once on first query and cached for the detector's lifetime;
// repeated queries are idempotent.
type Detector struct {
	lookup    LookupFunc
	overrides Overrides

	once  sync.Once
	kind  Kind
	muxed bool
}

// Option configures a Detector.
type Option func(*Detector)

// WithLookup replaces the environment lookup function.
func WithLookup(fn LookupFunc) Option {
	return func(d *Detector) {
		if fn != nil {
			d.lookup = fn
		}
	}
}

// WithOverrides sets forced terminal assumptions.
func WithOverrides(o Overrides) Option {
	return func(d *Detector) {
		d.overrides = o
	}
}

// NewDetector creates a detector reading the process environment.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Kind returns the detected terminal kind.
func (d *Detector) Kind() Kind {
	d.detect()
	return d.kind
}

// HasMultiplexer reports whether a multiplexer sits between the editor and
// the terminal.
func (d *Detector) HasMultiplexer() bool {
	d.detect()
	return d.muxed
}

func (d *Detector) detect() {
	d.once.Do(func() {
		d.kind = d.classify()
		_, d.muxed = d.lookup(envTmux)
	})
}

// classify applies the detection rules in precedence order. Overrides win
// over environment inspection; a missing variable is "feature absent",
// never an error.
func (d *Detector) classify() Kind {
	switch {
	case d.overrides.AssumeITerm:
		return KindITerm
	case d.overrides.AssumeMintty:
		return KindMintty
	case d.overrides.AssumeTerminalApp:
		return KindTerminalApp
	}

	if _, ok := d.lookup(envITermProfile); ok {
		return KindITerm
	}
	if _, ok := d.lookup(envMintty); ok {
		return KindMintty
	}
	if v, ok := d.lookup(envTermProgram); ok && v == appleTerminal {
		return KindTerminalApp
	}
	return KindUnsupported
}

// InsideTerminal reports whether stdout is attached to a real terminal.
// The layer must stay inert under GUI front ends and redirected output.
func InsideTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
