package terminal

// Kind identifies the terminal emulator in use.
type Kind uint8

const (
	// KindUnsupported means no supported terminal was detected.
	KindUnsupported Kind = iota

	// KindITerm is iTerm2.
	KindITerm

	// KindMintty is mintty (Cygwin, MSYS, Git for Windows).
	KindMintty

	// KindTerminalApp is Apple Terminal.app.
	KindTerminalApp
)

// kindNames maps Kind values to human-readable strings.
var kindNames = [...]string{
	KindUnsupported: "unsupported",
	KindITerm:       "iterm",
	KindMintty:      "mintty",
	KindTerminalApp: "terminal-app",
}

// String returns the human-readable name of the terminal kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unsupported"
}

// Supported reports whether the layer can do anything useful with this
// terminal.
func (k Kind) Supported() bool {
	return k != KindUnsupported
}
