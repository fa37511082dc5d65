package host

// Mode identifies an editor input mode.
type Mode uint8

const (
	// ModeNormal is the default command mode.
	ModeNormal Mode = iota

	// ModeInsert is text insertion mode.
	ModeInsert

	// ModeVisual is selection mode.
	ModeVisual

	// ModeOperatorPending is the state after an operator key, waiting for
	// a motion or text object.
	ModeOperatorPending

	// ModeCommandLine is command-line editing mode (e.g. after ":").
	ModeCommandLine
)

// Modes lists every mode the focus bridge installs handlers for.
var Modes = [...]Mode{
	ModeNormal,
	ModeInsert,
	ModeVisual,
	ModeOperatorPending,
	ModeCommandLine,
}

// modeNames maps Mode values to human-readable strings.
var modeNames = [...]string{
	ModeNormal:          "normal",
	ModeInsert:          "insert",
	ModeVisual:          "visual",
	ModeOperatorPending: "operator-pending",
	ModeCommandLine:     "command-line",
}

// String returns the mode name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}
