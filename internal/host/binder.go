package host

// Handler runs when a bound key code is delivered in its mode. The editor
// invokes handlers from its input loop, which is not reentrant during a
// single handler's execution.
type Handler func(ed Editor) error

// BindOptions control how a binding is installed.
type BindOptions struct {
	// Silent suppresses command echo and messages while the handler runs.
	Silent bool

	// NoRemap prevents user mappings from rebinding the code.
	NoRemap bool
}

// Binder installs key-code bindings into the editor's per-mode tables.
type Binder interface {
	// SetKeyBytes associates a synthetic key code with the raw bytes the
	// terminal sends for it. The editor's input decoder translates the
	// byte sequence into the code before binding lookup.
	SetKeyBytes(code KeyCode, bytes string)

	// Bind installs a handler for a key code in the given mode, replacing
	// any previous binding for that (mode, code) pair.
	Bind(mode Mode, code KeyCode, handler Handler, opts BindOptions)
}
