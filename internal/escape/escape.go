package escape

import (
	"fmt"

	"github.com/dshills/termfix/internal/terminal"
)

// Shape identifies a logical cursor shape.
type Shape uint8

const (
	// ShapeBlock is a full-cell block cursor.
	ShapeBlock Shape = iota

	// ShapeBar is a thin vertical bar cursor.
	ShapeBar

	// ShapeUnderline is an underline cursor.
	ShapeUnderline
)

// shapeNames maps Shape values to human-readable strings.
var shapeNames = [...]string{
	ShapeBlock:     "block",
	ShapeBar:       "bar",
	ShapeUnderline: "underline",
}

// String returns the shape name.
func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// Direction selects between saving and restoring the screen buffer.
type Direction uint8

const (
	// Save switches to the alternate screen buffer.
	Save Direction = iota

	// Restore switches back to the main screen buffer.
	Restore
)

// Fixed sequences. The DEC private modes (1004, 1049) are shared across
// the supported emulators; only cursor shaping needs per-family dialects.
const (
	saveScreen    = "\x1b[?1049h"
	restoreScreen = "\x1b[?1049l"

	enableFocusReporting  = "\x1b[?1004h"
	disableFocusReporting = "\x1b[?1004l"
)

// Raw byte sequences the terminal delivers as input on focus changes once
// focus reporting is enabled.
const (
	FocusGained = "\x1b[I"
	FocusLost   = "\x1b[O"
)

// iTerm2 sets cursor shape through OSC 50 with its own code assignment.
var itermShapeCodes = map[Shape]int{
	ShapeBlock:     0,
	ShapeBar:       1,
	ShapeUnderline: 2,
}

// mintty speaks DECSCUSR (CSI Ps SP q). The steady-variant codes are
// numbered differently from iTerm's: bar is 6 here, 1 there.
var minttyShapeCodes = map[Shape]int{
	ShapeBlock:     2,
	ShapeUnderline: 4,
	ShapeBar:       6,
}

// CursorShape returns the control sequence that sets the cursor to the
// given shape on the given terminal, or "" when the terminal cannot
// change cursor shape (Terminal.app, unsupported terminals).
func CursorShape(shape Shape, kind terminal.Kind) string {
	switch kind {
	case terminal.KindITerm:
		code, ok := itermShapeCodes[shape]
		if !ok {
			return ""
		}
		return fmt.Sprintf("\x1b]50;CursorShape=%d\x07", code)
	case terminal.KindMintty:
		code, ok := minttyShapeCodes[shape]
		if !ok {
			return ""
		}
		return fmt.Sprintf("\x1b[%d q", code)
	default:
		return ""
	}
}

// ScreenBuffer returns the alternate-screen save or restore sequence.
// Only iTerm has confirmed support; other kinds yield "".
func ScreenBuffer(dir Direction, kind terminal.Kind) string {
	if kind != terminal.KindITerm {
		return ""
	}
	if dir == Save {
		return saveScreen
	}
	return restoreScreen
}

// FocusReporting returns the sequence enabling or disabling the terminal's
// focus-change notifications. Supported on every recognized terminal;
// "" for KindUnsupported.
func FocusReporting(enabled bool, kind terminal.Kind) string {
	if !kind.Supported() {
		return ""
	}
	if enabled {
		return enableFocusReporting
	}
	return disableFocusReporting
}
