// Package script evaluates a user Lua rc file against the configuration.
//
// The rc file sees a `termfix` module table:
//
//	termfix.fix_cursor(false)
//	termfix.fix_focus(true)
//	termfix.cursor_shape("insert", "underline")
//	termfix.assume("iterm")
//
// Lua errors are returned to the caller; an rc file is explicit user
// intent, not a best-effort terminal probe.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/termfix/internal/config"
)

// moduleName is the global table exposed to the rc file.
const moduleName = "termfix"

// Apply evaluates the Lua file at path and returns cfg with the file's
// settings applied. A missing rc file is the caller's concern; this
// function expects the path to exist.
func Apply(cfg config.Config, path string) (config.Config, error) {
	return run(cfg, func(L *lua.LState) error { return L.DoFile(path) })
}

// ApplySource evaluates Lua source directly. Used by tests and embedded
// defaults.
func ApplySource(cfg config.Config, source string) (config.Config, error) {
	return run(cfg, func(L *lua.LState) error { return L.DoString(source) })
}

func run(cfg config.Config, exec func(*lua.LState) error) (config.Config, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibraries(L)
	register(L, &cfg)

	if err := exec(L); err != nil {
		return cfg, fmt.Errorf("rc script: %w", err)
	}
	return cfg, nil
}

// openSafeLibraries opens only safe Lua standard libraries. io, os, debug,
// and package stay closed: an rc file configures the layer, it does not
// touch the system.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// register installs the termfix module table. The closures mutate cfg in
// place; Apply copies the value before evaluation so the caller's Config
// stays untouched on error.
func register(L *lua.LState, cfg *config.Config) {
	tbl := L.NewTable()

	L.SetField(tbl, "fix_cursor", L.NewFunction(func(L *lua.LState) int {
		cfg.FixCursor = L.CheckBool(1)
		return 0
	}))

	L.SetField(tbl, "fix_focus", L.NewFunction(func(L *lua.LState) int {
		cfg.FixFocus = L.CheckBool(1)
		return 0
	}))

	L.SetField(tbl, "cursor_shape", L.NewFunction(func(L *lua.LState) int {
		which := L.CheckString(1)
		shape, err := config.ParseShape(L.CheckString(2))
		if err != nil {
			L.ArgError(2, err.Error())
			return 0
		}
		switch which {
		case "normal":
			cfg.NormalShape = shape
		case "insert":
			cfg.InsertShape = shape
		default:
			L.ArgError(1, fmt.Sprintf("unknown mode %q (want \"normal\" or \"insert\")", which))
		}
		return 0
	}))

	L.SetField(tbl, "assume", L.NewFunction(func(L *lua.LState) int {
		switch name := L.CheckString(1); name {
		case "iterm":
			cfg.AssumeITerm = true
		case "mintty":
			cfg.AssumeMintty = true
		case "terminal_app":
			cfg.AssumeTerminalApp = true
		default:
			L.ArgError(1, fmt.Sprintf("unknown terminal %q", name))
		}
		return 0
	}))

	L.SetGlobal(moduleName, tbl)
}
