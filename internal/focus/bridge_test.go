package focus

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/termfix/internal/escape"
	"github.com/dshills/termfix/internal/event"
	"github.com/dshills/termfix/internal/event/events"
	"github.com/dshills/termfix/internal/host"
)

// mockBinder records key-byte claims and installed bindings.
type mockBinder struct {
	keyBytes map[host.KeyCode]string
	bindings map[host.Mode]map[host.KeyCode]host.Handler
	opts     []host.BindOptions
}

func newMockBinder() *mockBinder {
	return &mockBinder{
		keyBytes: make(map[host.KeyCode]string),
		bindings: make(map[host.Mode]map[host.KeyCode]host.Handler),
	}
}

func (m *mockBinder) SetKeyBytes(code host.KeyCode, bytes string) {
	m.keyBytes[code] = bytes
}

func (m *mockBinder) Bind(mode host.Mode, code host.KeyCode, handler host.Handler, opts host.BindOptions) {
	if m.bindings[mode] == nil {
		m.bindings[mode] = make(map[host.KeyCode]host.Handler)
	}
	m.bindings[mode][code] = handler
	m.opts = append(m.opts, opts)
}

// mockCmdline implements host.CommandLine.
type mockCmdline struct {
	text string
	col  int
}

func (c *mockCmdline) Text() string { return c.text }
func (c *mockCmdline) Column() int { return c.col }
func (c *mockCmdline) SetText(t string) { c.text = t }
func (c *mockCmdline) SetColumn(col int) { c.col = col }

// mockEditor implements host.Editor with observable state transitions.
type mockEditor struct {
	buffer host.BufferID
	mode   host.Mode
	line   int
	col    int

	selStart, selEnd int
	pendingOperator  bool

	cmdline mockCmdline

	visualSuspends int
	visualRestores int
	insertSuspends int
	insertResumes  int
}

func (e *mockEditor) ActiveBuffer() host.BufferID { return e.buffer }
func (e *mockEditor) Mode() host.Mode { return e.mode }
func (e *mockEditor) CursorPosition() (int, int) { return e.line, e.col }
func (e *mockEditor) CommandLine() host.CommandLine { return &e.cmdline }

func (e *mockEditor) CancelOperator() {
	e.pendingOperator = false
	e.mode = host.ModeNormal
}

func (e *mockEditor) SuspendVisual() func() {
	e.visualSuspends++
	start, end := e.selStart, e.selEnd
	e.mode = host.ModeNormal
	return func() {
		e.visualRestores++
		e.mode = host.ModeVisual
		e.selStart, e.selEnd = start, end
	}
}

func (e *mockEditor) SuspendInsert() func() {
	e.insertSuspends++
	col := e.col
	e.mode = host.ModeNormal
	return func() {
		e.insertResumes++
		e.mode = host.ModeInsert
		e.col = col
	}
}

type fixture struct {
	bus    *event.Bus
	binder *mockBinder
	editor *mockEditor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bus:    event.NewBus(),
		binder: newMockBinder(),
		editor: &mockEditor{buffer: "main.go", mode: host.ModeNormal},
	}
	NewBridge(f.bus).Install(f.binder)
	return f
}

// fire invokes the installed handler for (mode, code) against the editor.
func (f *fixture) fire(t *testing.T, mode host.Mode, code host.KeyCode) error {
	t.Helper()
	h := f.binder.bindings[mode][code]
	if h == nil {
		t.Fatalf("no binding for mode %v code %#x", mode, code)
	}
	return h(f.editor)
}

func TestInstallClaimsKeyCodes(t *testing.T) {
	f := newFixture(t)

	if got := f.binder.keyBytes[host.KeyFocusLost]; got != "\x1b[O" {
		t.Errorf("focus-lost bytes = %q, want ESC[O", got)
	}
	if got := f.binder.keyBytes[host.KeyFocusGained]; got != "\x1b[I" {
		t.Errorf("focus-gained bytes = %q, want ESC[I", got)
	}

	for _, mode := range host.Modes {
		for _, code := range []host.KeyCode{host.KeyFocusLost, host.KeyFocusGained} {
			if f.binder.bindings[mode][code] == nil {
				t.Errorf("no binding installed for mode %v code %#x", mode, code)
			}
		}
	}

	for _, opts := range f.binder.opts {
		if !opts.Silent || !opts.NoRemap {
			t.Fatalf("binding options = %+v, want silent and no-remap", opts)
		}
	}
}

func TestNormalModeDispatch(t *testing.T) {
	f := newFixture(t)

	var got events.FocusChanged
	if _, err := f.bus.Subscribe(events.TopicFocusLost, func(_ context.Context, e any) error {
		got = e.(event.Event[events.FocusChanged]).Payload
		return nil
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := f.fire(t, host.ModeNormal, host.KeyFocusLost); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if got.Buffer != "main.go" {
		t.Errorf("event buffer = %q, want %q", got.Buffer, "main.go")
	}
	if got.Gained {
		t.Error("Gained = true for focus-lost")
	}
}

func TestOperatorPendingCancels(t *testing.T) {
	f := newFixture(t)
	f.editor.mode = host.ModeOperatorPending
	f.editor.pendingOperator = true

	if err := f.fire(t, host.ModeOperatorPending, host.KeyFocusGained); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if f.editor.pendingOperator {
		t.Error("pending operator not cancelled")
	}
	if f.editor.mode != host.ModeNormal {
		t.Errorf("mode = %v after cancel, want normal", f.editor.mode)
	}
}

// Firing focus-lost then focus-gained in visual mode leaves the selection
// span unchanged and visual mode active.
func TestVisualModeSelectionSurvives(t *testing.T) {
	f := newFixture(t)
	f.editor.mode = host.ModeVisual
	f.editor.selStart, f.editor.selEnd = 3, 17

	if err := f.fire(t, host.ModeVisual, host.KeyFocusLost); err != nil {
		t.Fatalf("focus-lost handler: %v", err)
	}
	if err := f.fire(t, host.ModeVisual, host.KeyFocusGained); err != nil {
		t.Fatalf("focus-gained handler: %v", err)
	}

	if f.editor.mode != host.ModeVisual {
		t.Errorf("mode = %v, want visual", f.editor.mode)
	}
	if f.editor.selStart != 3 || f.editor.selEnd != 17 {
		t.Errorf("selection = [%d,%d], want [3,17]", f.editor.selStart, f.editor.selEnd)
	}
	if f.editor.visualSuspends != 2 || f.editor.visualRestores != 2 {
		t.Errorf("suspend/restore counts = %d/%d, want 2/2",
			f.editor.visualSuspends, f.editor.visualRestores)
	}
}

func TestInsertModeRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.editor.mode = host.ModeInsert
	f.editor.col = 42

	if err := f.fire(t, host.ModeInsert, host.KeyFocusLost); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if f.editor.mode != host.ModeInsert {
		t.Errorf("mode = %v after handler, want insert", f.editor.mode)
	}
	if _, col := f.editor.CursorPosition(); col != 42 {
		t.Errorf("cursor col = %d after handler, want 42", col)
	}
	if f.editor.insertSuspends != 1 || f.editor.insertResumes != 1 {
		t.Errorf("suspend/resume counts = %d/%d, want 1/1",
			f.editor.insertSuspends, f.editor.insertResumes)
	}
}

func TestCommandLinePreserved(t *testing.T) {
	f := newFixture(t)
	f.editor.mode = host.ModeCommandLine
	f.editor.cmdline = mockCmdline{text: "echo hi", col: 7}

	// A listener that mangles the command line; the bridge must restore it.
	if _, err := f.bus.Subscribe(events.TopicFocusLost, func(context.Context, any) error {
		f.editor.cmdline.SetText("clobbered")
		f.editor.cmdline.SetColumn(0)
		return nil
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := f.fire(t, host.ModeCommandLine, host.KeyFocusLost); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if f.editor.cmdline.text != "echo hi" {
		t.Errorf("command line text = %q, want %q", f.editor.cmdline.text, "echo hi")
	}
	if f.editor.cmdline.col != 7 {
		t.Errorf("command line column = %d, want 7", f.editor.cmdline.col)
	}
}

// Listener errors propagate unmodified, and context restoration still runs.
func TestListenerErrorPropagatesRestoreRuns(t *testing.T) {
	boom := errors.New("listener boom")

	t.Run("command line", func(t *testing.T) {
		f := newFixture(t)
		f.editor.mode = host.ModeCommandLine
		f.editor.cmdline = mockCmdline{text: "write all", col: 4}

		if _, err := f.bus.Subscribe(events.TopicFocusGained, func(context.Context, any) error {
			return boom
		}); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}

		err := f.fire(t, host.ModeCommandLine, host.KeyFocusGained)
		if !errors.Is(err, boom) {
			t.Errorf("handler error = %v, want wrapped boom", err)
		}
		if f.editor.cmdline.text != "write all" || f.editor.cmdline.col != 4 {
			t.Errorf("command line not restored after error: %q col %d",
				f.editor.cmdline.text, f.editor.cmdline.col)
		}
	})

	t.Run("visual", func(t *testing.T) {
		f := newFixture(t)
		f.editor.mode = host.ModeVisual
		f.editor.selStart, f.editor.selEnd = 1, 9

		if _, err := f.bus.Subscribe(events.TopicFocusLost, func(context.Context, any) error {
			return boom
		}); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}

		err := f.fire(t, host.ModeVisual, host.KeyFocusLost)
		if !errors.Is(err, boom) {
			t.Errorf("handler error = %v, want wrapped boom", err)
		}
		if f.editor.mode != host.ModeVisual || f.editor.visualRestores != 1 {
			t.Error("visual mode not restored after listener error")
		}
	})

	t.Run("insert", func(t *testing.T) {
		f := newFixture(t)
		f.editor.mode = host.ModeInsert
		f.editor.col = 8

		if _, err := f.bus.Subscribe(events.TopicFocusLost, func(context.Context, any) error {
			return boom
		}); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}

		err := f.fire(t, host.ModeInsert, host.KeyFocusLost)
		if !errors.Is(err, boom) {
			t.Errorf("handler error = %v, want wrapped boom", err)
		}
		if f.editor.mode != host.ModeInsert || f.editor.col != 8 {
			t.Error("insert context not restored after listener error")
		}
	})
}

func TestFocusGainedTopic(t *testing.T) {
	f := newFixture(t)

	gained := 0
	if _, err := f.bus.Subscribe(events.TopicFocusGained, func(_ context.Context, e any) error {
		ev := e.(event.Event[events.FocusChanged])
		if !ev.Payload.Gained {
			t.Error("Gained = false on gained topic")
		}
		gained++
		return nil
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := f.fire(t, host.ModeNormal, host.KeyFocusGained); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if gained != 1 {
		t.Errorf("gained listener ran %d times, want 1", gained)
	}
}

// Bytes claimed for the synthetic codes must round-trip through the escape
// catalog, not be hand-built here.
func TestKeyBytesMatchCatalog(t *testing.T) {
	f := newFixture(t)
	if f.binder.keyBytes[host.KeyFocusLost] != escape.FocusLost {
		t.Error("focus-lost bytes differ from catalog")
	}
	if f.binder.keyBytes[host.KeyFocusGained] != escape.FocusGained {
		t.Error("focus-gained bytes differ from catalog")
	}
}
