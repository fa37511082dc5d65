// Package config holds the compatibility layer's configuration: the two
// feature toggles, the per-mode cursor shapes, and the forced-terminal
// assumptions.
//
// Config is a plain immutable value. It is constructed once at start-up
// from defaults, an optional TOML file, and TERMFIX_* environment
// overrides (in that precedence order), then passed by value into the
// lifecycle installer and the focus bridge. There is no ambient global
// state.
package config
