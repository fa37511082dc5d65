// Package escape is the catalog of terminal control sequences used by the
// compatibility layer. Every function is a pure mapping from a semantic
// request and a terminal kind to literal sequence bytes; unsupported
// combinations yield the empty string rather than an error, so callers can
// install whatever they get and the feature degrades silently.
//
// Sequences are never hand-constructed outside this package.
package escape
