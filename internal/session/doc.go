// Package session runs a minimal interactive modal host over a raw tty,
// wiring the detection, activation, and focus layers against a live
// terminal. It exists so the composed escape sequences can be exercised
// end to end: the session takes the terminal raw, emits the startup
// payload, translates incoming focus byte strings into synthetic key
// presses, and replays the insert-mode cursor hooks as the mode changes.
//
// The editing model is deliberately small: one scratch line, the five
// modes, and just enough motions and operators to drive every
// mode-specific focus behavior.
package session
