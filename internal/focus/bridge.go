// Package focus routes the terminal's focus notifications into the host
// editor's synchronous input model.
//
// The terminal delivers focus changes as escape-sequence bytes on the
// ordinary input stream. The bridge binds those byte strings to two
// synthetic key codes and installs a handler for each code in every edit
// mode. Each handler is a finite synchronous sequence: save context (where
// the mode needs it), dispatch the notification event, restore context.
// Restoration is hung on defer, so it runs even when a listener errors;
// the error itself still propagates to the caller — masking listener bugs
// would be worse than a visible failure.
package focus

import (
	"context"
	"fmt"

	"github.com/dshills/termfix/internal/escape"
	"github.com/dshills/termfix/internal/event"
	"github.com/dshills/termfix/internal/event/events"
	"github.com/dshills/termfix/internal/host"
)

// source identifies the bridge in event metadata.
const source = "focus-bridge"

// Bridge installs the focus bindings and publishes focus events.
type Bridge struct {
	bus *event.Bus
}

// NewBridge creates a bridge publishing on the given bus.
func NewBridge(bus *event.Bus) *Bridge {
	return &Bridge{bus: bus}
}

// Install claims the two synthetic key codes, associates them with the
// terminal's focus byte strings, and binds a mode-appropriate handler for
// each code in all five edit modes. The bindings stay live for the rest of
// the session.
func (b *Bridge) Install(binder host.Binder) {
	binder.SetKeyBytes(host.KeyFocusLost, escape.FocusLost)
	binder.SetKeyBytes(host.KeyFocusGained, escape.FocusGained)

	opts := host.BindOptions{Silent: true, NoRemap: true}
	for _, mode := range host.Modes {
		binder.Bind(mode, host.KeyFocusLost, b.handler(mode, false), opts)
		binder.Bind(mode, host.KeyFocusGained, b.handler(mode, true), opts)
	}
}

// handler builds the handler for one (mode, direction) pair.
func (b *Bridge) handler(mode host.Mode, gained bool) host.Handler {
	switch mode {
	case host.ModeNormal:
		return func(ed host.Editor) error {
			return b.dispatch(ed, gained)
		}

	case host.ModeOperatorPending:
		return func(ed host.Editor) error {
			ed.CancelOperator()
			return b.dispatch(ed, gained)
		}

	case host.ModeVisual:
		return func(ed host.Editor) error {
			restore := ed.SuspendVisual()
			defer restore()
			return b.dispatch(ed, gained)
		}

	case host.ModeInsert:
		return func(ed host.Editor) error {
			resume := ed.SuspendInsert()
			defer resume()
			return b.dispatch(ed, gained)
		}

	case host.ModeCommandLine:
		return func(ed host.Editor) error {
			cl := ed.CommandLine()
			text, col := cl.Text(), cl.Column()
			defer func() {
				// Re-enter the captured edit verbatim; listeners may have
				// touched the command line.
				cl.SetText(text)
				cl.SetColumn(col)
			}()
			return b.dispatch(ed, gained)
		}

	default:
		return func(ed host.Editor) error {
			return fmt.Errorf("focus: no handler for mode %v", mode)
		}
	}
}

// dispatch publishes the buffer-scoped focus event synchronously.
// Listener errors come back unmodified.
func (b *Bridge) dispatch(ed host.Editor, gained bool) error {
	t := events.TopicFocusLost
	if gained {
		t = events.TopicFocusGained
	}

	payload := events.FocusChanged{
		Buffer: string(ed.ActiveBuffer()),
		Gained: gained,
	}
	return b.bus.PublishSync(context.Background(), event.New(t, payload, source))
}
