package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the TOML file layout. Pointer fields distinguish
// "unset" from an explicit value so the file only overrides what it names.
type fileConfig struct {
	FixCursor   *bool   `toml:"fix_cursor"`
	FixFocus    *bool   `toml:"fix_focus"`
	NormalShape *string `toml:"normal_shape"`
	InsertShape *string `toml:"insert_shape"`

	Assume struct {
		ITerm       *bool `toml:"iterm"`
		Mintty      *bool `toml:"mintty"`
		TerminalApp *bool `toml:"terminal_app"`
	} `toml:"assume"`
}

// LoadFile applies a TOML configuration file on top of base. A missing
// file is not an error; base is returned unchanged. A malformed file or an
// unknown shape name is an error, since a user-written file is explicit
// intent.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg := base
	if fc.FixCursor != nil {
		cfg.FixCursor = *fc.FixCursor
	}
	if fc.FixFocus != nil {
		cfg.FixFocus = *fc.FixFocus
	}
	if fc.NormalShape != nil {
		shape, err := ParseShape(*fc.NormalShape)
		if err != nil {
			return base, fmt.Errorf("config file %s: normal_shape: %w", path, err)
		}
		cfg.NormalShape = shape
	}
	if fc.InsertShape != nil {
		shape, err := ParseShape(*fc.InsertShape)
		if err != nil {
			return base, fmt.Errorf("config file %s: insert_shape: %w", path, err)
		}
		cfg.InsertShape = shape
	}
	if fc.Assume.ITerm != nil {
		cfg.AssumeITerm = *fc.Assume.ITerm
	}
	if fc.Assume.Mintty != nil {
		cfg.AssumeMintty = *fc.Assume.Mintty
	}
	if fc.Assume.TerminalApp != nil {
		cfg.AssumeTerminalApp = *fc.Assume.TerminalApp
	}
	return cfg, nil
}

// Environment variable names for overrides.
const (
	envFixCursor         = "TERMFIX_FIX_CURSOR"
	envFixFocus          = "TERMFIX_FIX_FOCUS"
	envNormalShape       = "TERMFIX_NORMAL_SHAPE"
	envInsertShape       = "TERMFIX_INSERT_SHAPE"
	envAssumeITerm       = "TERMFIX_ASSUME_ITERM"
	envAssumeMintty      = "TERMFIX_ASSUME_MINTTY"
	envAssumeTerminalApp = "TERMFIX_ASSUME_TERMINAL_APP"
)

// LoadEnv applies TERMFIX_* environment overrides on top of base using the
// given lookup function (nil means os.LookupEnv). Boolean variables accept
// strconv.ParseBool forms; shape variables accept names or {0,1,2}.
func LoadEnv(lookup func(string) (string, bool), base Config) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := base

	boolVar := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", key, v, err)
		}
		*dst = b
		return nil
	}
	for _, v := range []struct {
		key string
		dst *bool
	}{
		{envFixCursor, &cfg.FixCursor},
		{envFixFocus, &cfg.FixFocus},
		{envAssumeITerm, &cfg.AssumeITerm},
		{envAssumeMintty, &cfg.AssumeMintty},
		{envAssumeTerminalApp, &cfg.AssumeTerminalApp},
	} {
		if err := boolVar(v.key, v.dst); err != nil {
			return base, err
		}
	}

	if v, ok := lookup(envNormalShape); ok {
		shape, err := ParseShape(v)
		if err != nil {
			return base, fmt.Errorf("%s: %w", envNormalShape, err)
		}
		cfg.NormalShape = shape
	}
	if v, ok := lookup(envInsertShape); ok {
		shape, err := ParseShape(v)
		if err != nil {
			return base, fmt.Errorf("%s: %w", envInsertShape, err)
		}
		cfg.InsertShape = shape
	}
	return cfg, nil
}
