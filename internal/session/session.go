package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termfix/internal/config"
	"github.com/dshills/termfix/internal/escape"
	"github.com/dshills/termfix/internal/event"
	"github.com/dshills/termfix/internal/event/events"
	"github.com/dshills/termfix/internal/focus"
	"github.com/dshills/termfix/internal/host"
	"github.com/dshills/termfix/internal/lifecycle"
	"github.com/dshills/termfix/internal/mux"
	"github.com/dshills/termfix/internal/terminal"
)

// ErrNotInteractive is returned by Run when stdout is not attached to a
// terminal.
var ErrNotInteractive = errors.New("session: stdout is not a terminal")

const scratchBuffer = host.BufferID("scratch")

type bindKey struct {
	mode host.Mode
	code host.KeyCode
}

type binding struct {
	handler host.Handler
	opts    host.BindOptions
}

var (
	_ host.Hooks  = (*Session)(nil)
	_ host.Binder = (*Session)(nil)
	_ host.Editor = (*Session)(nil)
)

// Session is a minimal modal editing host driven directly over a raw tty.
// It implements host.Hooks, host.Binder, and host.Editor so the activation
// and focus layers can be exercised against a live terminal: a single
// scratch line is editable in insert mode, v starts a selection, d waits
// for a motion, : opens a command line, and q quits.
type Session struct {
	cfg config.Config
	det *terminal.Detector
	bus *event.Bus

	mu       sync.Mutex
	tty      tcell.Tty
	hooks    map[host.HookSlot]string
	keyBytes map[host.KeyCode]string
	bindings map[bindKey]binding

	mode      host.Mode
	line      []rune
	col       int
	selAnchor int
	pending   bool // operator awaiting a motion
	cmdline   commandLine
	status    string
	focused   bool

	installer *lifecycle.Installer
	stop      chan struct{}
	stopOnce  sync.Once
	done      chan struct{}

	// Injection points for tests; New sets the real implementations.
	inTerminal func() bool
	openTty    func() (tcell.Tty, error)
}

// New creates a session with the given configuration, detector, and bus.
func New(cfg config.Config, det *terminal.Detector, bus *event.Bus) *Session {
	return &Session{
		cfg:      cfg,
		det:      det,
		bus:      bus,
		hooks:    make(map[host.HookSlot]string),
		keyBytes: make(map[host.KeyCode]string),
		bindings: make(map[bindKey]binding),
		mode:     host.ModeNormal,
		focused:  true,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),

		inTerminal: terminal.InsideTerminal,
		openTty:    tcell.NewDevTty,
	}
}

// Run takes the terminal raw, activates the terminal fixes, and processes
// input until q is pressed or the context is canceled.
func (s *Session) Run(ctx context.Context) error {
	if !s.inTerminal() {
		return ErrNotInteractive
	}

	tty, err := s.openTty()
	if err != nil {
		return fmt.Errorf("session: open tty: %w", err)
	}
	if err := tty.Start(); err != nil {
		return fmt.Errorf("session: start tty: %w", err)
	}
	s.mu.Lock()
	s.tty = tty
	s.mu.Unlock()

	s.installer = lifecycle.NewInstaller(s.cfg, s.det, s, lifecycle.WithInTerminal(s.inTerminal))
	if err := s.installer.Activate(); err != nil {
		_ = tty.Stop()
		return err
	}
	if s.cfg.FixFocus && s.det.Kind().Supported() {
		focus.NewBridge(s.bus).Install(s)
	}
	s.subscribeFocus()

	scanner := NewScanner(s.claimedBytes())
	s.runHook(host.HookStartup)
	s.render()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.stop:
		}
		s.shutdown()
		// Unblocks the pending read below.
		_ = tty.Close()
		close(s.done)
	}()

	buf := make([]byte, 128)
	for {
		n, err := tty.Read(buf)
		if err != nil {
			break
		}
		for _, tok := range scanner.Feed(buf[:n]) {
			s.handle(tok)
		}
		// A lone escape is a mode switch, not a sequence prefix, once
		// the read that carried it is exhausted.
		if p := scanner.Pending(); len(p) == 1 && p[0] == 0x1b {
			for _, tok := range scanner.Flush() {
				s.handle(tok)
			}
		}
		s.render()
	}

	// A spontaneous read error reaches here before Stop was requested;
	// shutdown must still have gone out before Run returns.
	s.Stop()
	<-s.done
	return ctx.Err()
}

// Stop requests session shutdown. Safe to call from any goroutine and
// from key handlers.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Session) shutdown() {
	s.mu.Lock()
	seq := s.hooks[host.HookShutdown]
	tty := s.tty
	s.mu.Unlock()
	if tty == nil {
		return
	}
	if seq != "" {
		_, _ = tty.Write([]byte(seq))
	}
	_, _ = tty.Write([]byte("\r\x1b[K"))
	_ = tty.Drain()
	_ = tty.Stop()
}

// ApplyShapes re-emits the cursor sequence for a reloaded normal-mode
// shape. The hook strings composed at activation keep their original
// shapes; a restart applies the full configuration.
func (s *Session) ApplyShapes(normal escape.Shape) {
	s.mu.Lock()
	tty := s.tty
	mode := s.mode
	s.mu.Unlock()
	if tty == nil || mode == host.ModeInsert {
		return
	}

	seq := escape.CursorShape(normal, s.det.Kind())
	if seq == "" {
		return
	}
	if s.det.HasMultiplexer() {
		seq = mux.Wrap(seq)
	}
	_, _ = tty.Write([]byte(seq))
}

// Sequences exposes the composed hook payloads, for diagnostics.
func (s *Session) Sequences() lifecycle.Set {
	if s.installer == nil {
		return lifecycle.Set{}
	}
	return s.installer.Sequences()
}

// Hook implements host.Hooks.
func (s *Session) Hook(slot host.HookSlot) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hooks[slot]
}

// SetHook implements host.Hooks.
func (s *Session) SetHook(slot host.HookSlot, seq string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[slot] = seq
}

// SetKeyBytes implements host.Binder.
func (s *Session) SetKeyBytes(code host.KeyCode, bytes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyBytes[code] = bytes
}

// Bind implements host.Binder. A later binding replaces an earlier one for
// the same mode and code.
func (s *Session) Bind(mode host.Mode, code host.KeyCode, handler host.Handler, opts host.BindOptions) {
	if handler == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[bindKey{mode: mode, code: code}] = binding{handler: handler, opts: opts}
}

// ActiveBuffer implements host.Editor.
func (s *Session) ActiveBuffer() host.BufferID { return scratchBuffer }

// Mode implements host.Editor.
func (s *Session) Mode() host.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// CursorPosition implements host.Editor.
func (s *Session) CursorPosition() (line, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 1, s.col
}

// CancelOperator implements host.Editor.
func (s *Session) CancelOperator() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.mode = host.ModeNormal
}

// SuspendVisual implements host.Editor. The selection anchor survives the
// suspension; restore re-enters visual mode with it.
func (s *Session) SuspendVisual() func() {
	s.mu.Lock()
	anchor := s.selAnchor
	s.mode = host.ModeNormal
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.selAnchor = anchor
		s.mode = host.ModeVisual
		s.mu.Unlock()
	}
}

// SuspendInsert implements host.Editor. Leaving and re-entering insert
// replays the cursor-shape hooks so the terminal tracks the mode.
func (s *Session) SuspendInsert() func() {
	s.mu.Lock()
	s.mode = host.ModeNormal
	s.mu.Unlock()
	s.runHook(host.HookInsertLeave)
	return func() {
		s.mu.Lock()
		s.mode = host.ModeInsert
		s.mu.Unlock()
		s.runHook(host.HookInsertEnter)
	}
}

// CommandLine implements host.Editor.
func (s *Session) CommandLine() host.CommandLine { return &s.cmdline }

func (s *Session) claimedBytes() map[host.KeyCode]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[host.KeyCode]string, len(s.keyBytes))
	for code, bytes := range s.keyBytes {
		out[code] = bytes
	}
	return out
}

func (s *Session) subscribeFocus() {
	if s.bus == nil {
		return
	}
	onFocus := func(_ context.Context, ev any) error {
		e, ok := ev.(event.Event[events.FocusChanged])
		if !ok {
			return nil
		}
		s.mu.Lock()
		s.focused = e.Payload.Gained
		s.mu.Unlock()
		return nil
	}
	_, _ = s.bus.Subscribe(events.TopicFocusGained, onFocus)
	_, _ = s.bus.Subscribe(events.TopicFocusLost, onFocus)
}

func (s *Session) handle(tok Token) {
	if tok.IsKey {
		s.handleKey(tok.Key)
		return
	}
	s.handleByte(tok.Byte)
}

func (s *Session) handleKey(code host.KeyCode) {
	s.mu.Lock()
	b, ok := s.bindings[bindKey{mode: s.mode, code: code}]
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := b.handler(s); err != nil && !b.opts.Silent {
		s.setStatus(err.Error())
	}
}

func (s *Session) handleByte(b byte) {
	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()

	switch mode {
	case host.ModeNormal:
		s.normalByte(b)
	case host.ModeInsert:
		s.insertByte(b)
	case host.ModeVisual:
		s.visualByte(b)
	case host.ModeOperatorPending:
		s.operatorByte(b)
	case host.ModeCommandLine:
		s.commandByte(b)
	}
}

func (s *Session) normalByte(b byte) {
	switch b {
	case 'q':
		s.Stop()
	case 'i':
		s.setMode(host.ModeInsert)
		s.runHook(host.HookInsertEnter)
	case 'v':
		s.mu.Lock()
		s.selAnchor = s.col
		s.mode = host.ModeVisual
		s.mu.Unlock()
	case 'd':
		s.mu.Lock()
		s.pending = true
		s.mode = host.ModeOperatorPending
		s.mu.Unlock()
	case ':':
		s.cmdline.SetText("")
		s.cmdline.SetColumn(0)
		s.setMode(host.ModeCommandLine)
	case 'h':
		s.moveCol(-1)
	case 'l':
		s.moveCol(1)
	}
}

func (s *Session) insertByte(b byte) {
	switch {
	case b == 0x1b:
		s.setMode(host.ModeNormal)
		s.runHook(host.HookInsertLeave)
	case b == 0x7f || b == 0x08:
		s.mu.Lock()
		if s.col > 0 {
			s.line = append(s.line[:s.col-1], s.line[s.col:]...)
			s.col--
		}
		s.mu.Unlock()
	case b >= 0x20 && b < 0x7f:
		s.mu.Lock()
		s.line = append(s.line[:s.col], append([]rune{rune(b)}, s.line[s.col:]...)...)
		s.col++
		s.mu.Unlock()
	}
}

func (s *Session) visualByte(b byte) {
	switch b {
	case 0x1b:
		s.setMode(host.ModeNormal)
	case 'h':
		s.moveCol(-1)
	case 'l':
		s.moveCol(1)
	case 'd':
		s.mu.Lock()
		lo, hi := s.selAnchor, s.col
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi < len(s.line) {
			hi++
		}
		if lo <= len(s.line) && hi <= len(s.line) {
			s.line = append(s.line[:lo], s.line[hi:]...)
			s.col = lo
		}
		s.mode = host.ModeNormal
		s.mu.Unlock()
	}
}

func (s *Session) operatorByte(b byte) {
	switch b {
	case 0x1b:
		s.CancelOperator()
	case 'l':
		s.mu.Lock()
		if s.col < len(s.line) {
			s.line = append(s.line[:s.col], s.line[s.col+1:]...)
		}
		s.pending = false
		s.mode = host.ModeNormal
		s.mu.Unlock()
	case '$':
		s.mu.Lock()
		if s.col <= len(s.line) {
			s.line = s.line[:s.col]
		}
		s.pending = false
		s.mode = host.ModeNormal
		s.mu.Unlock()
	default:
		s.CancelOperator()
	}
}

func (s *Session) commandByte(b byte) {
	switch {
	case b == 0x1b:
		s.setMode(host.ModeNormal)
	case b == '\r' || b == '\n':
		s.execute(s.cmdline.Text())
		s.cmdline.SetText("")
		s.cmdline.SetColumn(0)
		s.setMode(host.ModeNormal)
	case b == 0x7f || b == 0x08:
		text := s.cmdline.Text()
		col := s.cmdline.Column()
		if col > 0 && col <= len(text) {
			s.cmdline.SetText(text[:col-1] + text[col:])
			s.cmdline.SetColumn(col - 1)
		}
	case b >= 0x20 && b < 0x7f:
		text := s.cmdline.Text()
		col := s.cmdline.Column()
		if col > len(text) {
			col = len(text)
		}
		s.cmdline.SetText(text[:col] + string(b) + text[col:])
		s.cmdline.SetColumn(col + 1)
	}
}

func (s *Session) execute(command string) {
	switch command {
	case "q", "quit":
		s.Stop()
	case "":
	default:
		s.setStatus("not a command: " + command)
	}
}

func (s *Session) setMode(mode host.Mode) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

func (s *Session) setStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}

func (s *Session) moveCol(delta int) {
	s.mu.Lock()
	s.col += delta
	if s.col < 0 {
		s.col = 0
	}
	if s.col > len(s.line) {
		s.col = len(s.line)
	}
	s.mu.Unlock()
}

func (s *Session) runHook(slot host.HookSlot) {
	s.mu.Lock()
	seq := s.hooks[slot]
	tty := s.tty
	s.mu.Unlock()
	if tty != nil && seq != "" {
		_, _ = tty.Write([]byte(seq))
	}
}

func (s *Session) render() {
	s.mu.Lock()
	tty := s.tty
	mode := s.mode
	line := string(s.line)
	status := s.status
	focused := s.focused
	cmd := s.cmdline.Text()
	s.mu.Unlock()
	if tty == nil {
		return
	}

	focusTag := "focused"
	if !focused {
		focusTag = "unfocused"
	}
	display := line
	if mode == host.ModeCommandLine {
		display = ":" + cmd
	}
	out := fmt.Sprintf("\r\x1b[K-- %s -- [%s] %s", mode, focusTag, display)
	if status != "" {
		out += "  (" + status + ")"
	}
	_, _ = tty.Write([]byte(out))
}

// commandLine is the session's single command-line, satisfying
// host.CommandLine.
type commandLine struct {
	mu   sync.Mutex
	text string
	col  int
}

func (c *commandLine) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *commandLine) Column() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.col
}

func (c *commandLine) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

func (c *commandLine) SetColumn(col int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.col = col
}
