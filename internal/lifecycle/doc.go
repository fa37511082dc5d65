// Package lifecycle composes the terminal control sequences and installs
// them into the host editor's hook slots.
//
// Ordering is a hard contract, owned entirely by Builder.Build: at startup
// the cursor-shape reset and the focus-reporting enable must reach the
// terminal before the screen save; at shutdown the focus-reporting disable
// must precede the screen restore. Violating either order corrupts
// terminal state in the supported emulators.
package lifecycle
