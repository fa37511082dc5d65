package config

import (
	"fmt"
	"strings"

	"github.com/dshills/termfix/internal/escape"
	"github.com/dshills/termfix/internal/terminal"
)

// Config is the immutable configuration for the compatibility layer.
type Config struct {
	// FixCursor enables per-mode cursor shape switching.
	FixCursor bool

	// FixFocus enables focus reporting and the focus event bridge.
	FixFocus bool

	// NormalShape is the cursor shape outside insert mode.
	NormalShape escape.Shape

	// InsertShape is the cursor shape in insert mode.
	InsertShape escape.Shape

	// Forced terminal assumptions for environments where auto-detection
	// fails.
	AssumeITerm       bool
	AssumeMintty      bool
	AssumeTerminalApp bool
}

// Default returns the configuration used when nothing is set: both fixes
// enabled, block cursor in normal mode, bar cursor in insert mode.
func Default() Config {
	return Config{
		FixCursor:   true,
		FixFocus:    true,
		NormalShape: escape.ShapeBlock,
		InsertShape: escape.ShapeBar,
	}
}

// Overrides converts the forced-terminal assumptions into detector
// overrides.
func (c Config) Overrides() terminal.Overrides {
	return terminal.Overrides{
		AssumeITerm:       c.AssumeITerm,
		AssumeMintty:      c.AssumeMintty,
		AssumeTerminalApp: c.AssumeTerminalApp,
	}
}

// ParseShape converts a configuration value into a cursor shape. Both the
// shape names and the numeric codes {0, 1, 2} are accepted.
func ParseShape(s string) (escape.Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "block", "0":
		return escape.ShapeBlock, nil
	case "bar", "1":
		return escape.ShapeBar, nil
	case "underline", "2":
		return escape.ShapeUnderline, nil
	default:
		return escape.ShapeBlock, fmt.Errorf("unknown cursor shape %q", s)
	}
}
