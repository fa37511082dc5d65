package lifecycle

import (
	"errors"
	"sync"

	"github.com/dshills/termfix/internal/config"
	"github.com/dshills/termfix/internal/host"
	"github.com/dshills/termfix/internal/terminal"
)

// ErrAlreadyActivated is returned by Activate after the first call.
var ErrAlreadyActivated = errors.New("lifecycle: already activated")

// Installer wires the composed sequences into the host's hook slots. It is
// the sole writer of those slots and writes them exactly once.
type Installer struct {
	mu        sync.Mutex
	activated bool
	installed bool

	cfg         config.Config
	kind        terminal.Kind
	multiplexed bool
	hooks       host.Hooks
	inTerminal  func() bool
	set         Set
}

// Option configures an Installer.
type Option func(*Installer)

// WithInTerminal replaces the in-terminal probe. Used in tests and by
// hosts that gate on their own terminal handle rather than stdout.
func WithInTerminal(fn func() bool) Option {
	return func(i *Installer) {
		if fn != nil {
			i.inTerminal = fn
		}
	}
}

// NewInstaller creates an installer for the detected terminal.
func NewInstaller(cfg config.Config, det *terminal.Detector, hooks host.Hooks, opts ...Option) *Installer {
	i := &Installer{
		cfg:         cfg,
		kind:        det.Kind(),
		multiplexed: det.HasMultiplexer(),
		hooks:       hooks,
		inTerminal:  terminal.InsideTerminal,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Activate composes the sequence set and installs it into the hook slots.
// A no-op (nil error) on an unsupported terminal, and likewise when output
// is not attached to a terminal at all: under a GUI front end or redirected
// output the layer must stay completely inert. The second and later calls
// return ErrAlreadyActivated and leave the slots untouched, so activation
// can never duplicate hook content.
//
// The startup, insert-enter, and insert-leave slots are prepended to so
// pre-existing customizations survive; the shutdown slot is overwritten
// outright, matching the original layer's shutdown behavior.
func (i *Installer) Activate() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.activated {
		return ErrAlreadyActivated
	}
	i.activated = true

	if !i.kind.Supported() || !i.inTerminal() {
		return nil
	}

	i.set = Builder{
		Kind:        i.kind,
		Multiplexed: i.multiplexed,
		NormalShape: i.cfg.NormalShape,
		InsertShape: i.cfg.InsertShape,
	}.Build()

	if i.cfg.FixFocus {
		i.hooks.SetHook(host.HookStartup, i.set.Startup+i.hooks.Hook(host.HookStartup))
		i.hooks.SetHook(host.HookShutdown, i.set.Shutdown)
	}
	if i.cfg.FixCursor {
		i.hooks.SetHook(host.HookInsertEnter, i.set.InsertEnter+i.hooks.Hook(host.HookInsertEnter))
		i.hooks.SetHook(host.HookInsertLeave, i.set.InsertLeave+i.hooks.Hook(host.HookInsertLeave))
	}
	i.installed = true
	return nil
}

// Sequences returns the composed set. Zero before Activate, on an
// unsupported terminal, or outside a terminal.
func (i *Installer) Sequences() Set {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.set
}

// Active reports whether Activate installed anything.
func (i *Installer) Active() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.installed
}
