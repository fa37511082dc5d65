// Package terminal classifies the surrounding terminal emulator and
// detects an interposed multiplexer from the process environment.
//
// Detection is environment-only: no I/O, no terminal queries. An
// unrecognized terminal is not an error; it yields KindUnsupported and the
// rest of the layer stays inert.
package terminal
