// Package host defines the contracts the compatibility layer expects from
// the editor it augments: hook slots for terminal control strings, the mode
// table, key-code bindings, and the editor state the focus bridge saves and
// restores around event dispatch.
//
// The layer never reaches past these interfaces. The editor's configuration
// system, mapping engine, and event loop stay on the other side of them.
package host
