package host

// HookSlot identifies one of the editor's terminal hook strings. The editor
// writes a slot's content to the terminal verbatim when the corresponding
// lifecycle point is reached.
type HookSlot uint8

const (
	// HookStartup is written when the editor starts up.
	HookStartup HookSlot = iota

	// HookShutdown is written when the editor exits.
	HookShutdown

	// HookInsertEnter is written when insert mode is entered.
	HookInsertEnter

	// HookInsertLeave is written when insert mode is left.
	HookInsertLeave
)

// hookSlotNames maps HookSlot values to human-readable strings.
var hookSlotNames = [...]string{
	HookStartup:     "startup",
	HookShutdown:    "shutdown",
	HookInsertEnter: "insert-enter",
	HookInsertLeave: "insert-leave",
}

// String returns the slot name.
func (s HookSlot) String() string {
	if int(s) < len(hookSlotNames) {
		return hookSlotNames[s]
	}
	return "unknown"
}

// Hooks exposes the editor's terminal hook strings. Implementations must
// tolerate arbitrary raw bytes in a slot; the content is never interpreted,
// only forwarded to the terminal.
type Hooks interface {
	// Hook returns the current content of a slot.
	Hook(slot HookSlot) string

	// SetHook replaces the content of a slot.
	SetHook(slot HookSlot, seq string)
}
