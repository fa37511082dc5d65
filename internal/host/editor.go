package host

// BufferID identifies an editor buffer.
type BufferID string

// Editor is the host-editor surface the focus bridge drives. Every method
// is synchronous; the suspend methods return a restore func so the caller
// can guarantee restoration with defer even when dispatch fails.
type Editor interface {
	// ActiveBuffer returns the identity of the buffer with focus.
	ActiveBuffer() BufferID

	// Mode returns the current input mode.
	Mode() Mode

	// CursorPosition returns the cursor line and column.
	CursorPosition() (line, col int)

	// CancelOperator discards a pending operator and returns to normal
	// mode. A no-op outside operator-pending mode.
	CancelOperator()

	// SuspendVisual leaves visual mode, remembering the active selection.
	// The returned func re-enters visual mode on the same selection.
	SuspendVisual() (restore func())

	// SuspendInsert drops from insert mode to a one-shot normal-mode
	// execution context. The returned func resumes insert mode at the
	// saved cursor position.
	SuspendInsert() (restore func())

	// CommandLine returns the in-progress command-line edit state.
	// Only meaningful in command-line mode.
	CommandLine() CommandLine
}

// CommandLine exposes the editor's command-line editing state. The focus
// bridge captures text and column before dispatch and writes the captured
// values back afterwards, so an in-progress edit survives unchanged.
type CommandLine interface {
	// Text returns the current command-line content.
	Text() string

	// Column returns the cursor column within the command line.
	Column() int

	// SetText replaces the command-line content.
	SetText(text string)

	// SetColumn moves the cursor column within the command line.
	SetColumn(col int)
}
