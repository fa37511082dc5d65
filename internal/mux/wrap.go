// Package mux re-encodes escape sequences for transport through a terminal
// multiplexer. tmux forwards a byte range to the underlying terminal
// unmodified when it arrives inside the DCS pass-through envelope, with
// every escape byte in the payload doubled.
//
// Wrapping is applied only to the sequences that must reach the real
// terminal behind the multiplexer: the focus-reporting enable and the
// cursor-shape sequences. The focus-reporting disable and the alternate
// screen pair are never wrapped; double-restoring the screen buffer through
// tmux corrupts its display state.
package mux

import "strings"

const (
	// passthroughStart opens the tmux pass-through envelope.
	passthroughStart = "\x1bPtmux;"

	// passthroughEnd is the DCS string terminator.
	passthroughEnd = "\x1b\\"

	esc = "\x1b"
)

// Wrap encloses seq in the pass-through envelope, doubling every escape
// byte in the payload. Empty input stays empty, so unsupported catalog
// results pass through unchanged.
//
// Wrap is not idempotent: wrapping an already wrapped sequence produces a
// nested envelope the multiplexer will not unwrap correctly. Callers apply
// it at most once per sequence.
func Wrap(seq string) string {
	if seq == "" {
		return ""
	}
	return passthroughStart + strings.ReplaceAll(seq, esc, esc+esc) + passthroughEnd
}
