package lifecycle

import (
	"github.com/dshills/termfix/internal/escape"
	"github.com/dshills/termfix/internal/mux"
	"github.com/dshills/termfix/internal/terminal"
)

// Set holds the composed sequences installed into the host's hook slots,
// plus the raw bytes the terminal sends on focus changes. Built once;
// immutable afterwards.
type Set struct {
	// Startup is prepended to the editor's startup hook.
	Startup string

	// Shutdown replaces the editor's shutdown hook.
	Shutdown string

	// InsertEnter is prepended to the insert-mode-enter hook.
	InsertEnter string

	// InsertLeave is prepended to the insert-mode-leave hook.
	InsertLeave string

	// FocusLost and FocusGained are the input bytes to bind.
	FocusLost   string
	FocusGained string
}

// Builder composes the sequence set for one terminal. Build is the only
// way to obtain a Set, so the ordering rules cannot be bypassed by ad-hoc
// concatenation at call sites.
type Builder struct {
	// Kind is the detected terminal.
	Kind terminal.Kind

	// Multiplexed is true when a multiplexer sits between editor and
	// terminal.
	Multiplexed bool

	// NormalShape and InsertShape are the configured cursor shapes.
	NormalShape escape.Shape
	InsertShape escape.Shape
}

// Build produces the ordered sequence set.
func (b Builder) Build() Set {
	cursorNormal := escape.CursorShape(b.NormalShape, b.Kind)
	cursorInsert := escape.CursorShape(b.InsertShape, b.Kind)
	focusOn := escape.FocusReporting(true, b.Kind)
	focusOff := escape.FocusReporting(false, b.Kind)
	save := escape.ScreenBuffer(escape.Save, b.Kind)
	restore := escape.ScreenBuffer(escape.Restore, b.Kind)

	if b.Multiplexed {
		// Focus reporting must be armed in the multiplexer's own layer and
		// in the terminal underneath, so the enable sequence goes out
		// wrapped then bare. The disable sequence and the screen pair stay
		// bare: passing the screen restore through the envelope makes the
		// multiplexer double-restore its own buffer.
		cursorNormal = mux.Wrap(cursorNormal)
		cursorInsert = mux.Wrap(cursorInsert)
		focusOn = mux.Wrap(focusOn) + focusOn
	}

	return Set{
		Startup:     cursorNormal + focusOn + save,
		Shutdown:    focusOff + restore,
		InsertEnter: cursorInsert,
		InsertLeave: cursorNormal,
		FocusLost:   escape.FocusLost,
		FocusGained: escape.FocusGained,
	}
}
