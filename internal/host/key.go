package host

// KeyCode is a synthetic input code in the editor's extended function-key
// range. Codes in this range are unused by default and, unlike a bare
// escape byte, carry no timeout ambiguity in the input decoder.
type KeyCode uint16

const (
	// KeyFocusLost claims the extended F24 slot for the terminal's
	// focus-lost notification bytes.
	KeyFocusLost KeyCode = 0xF018

	// KeyFocusGained claims the extended F25 slot for the terminal's
	// focus-gained notification bytes.
	KeyFocusGained KeyCode = 0xF019
)
