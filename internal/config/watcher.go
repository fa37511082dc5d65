package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when operating on a closed watcher.
var ErrWatcherClosed = errors.New("config: watcher closed")

// Watcher reloads the configuration file when it changes and delivers the
// resulting Config values on a channel. It is the only background work the
// layer starts, and it is explicitly opt-in.
type Watcher struct {
	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	path   string
	base   Config
	cfgs   chan Config
	errs   chan error
	done   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewWatcher watches the configuration file at path. Reloaded values are
// applied on top of base, matching LoadFile semantics. The parent
// directory is watched so editors that replace the file on save (rename
// over) are still observed.
func NewWatcher(path string, base Config) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fsw:  fsw,
		path: abs,
		base: base,
		cfgs: make(chan Config, 1),
		errs: make(chan error, 1),
		done: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Configs returns the channel delivering reloaded configurations.
func (w *Watcher) Configs() <-chan Config {
	return w.cfgs
}

// Errors returns the channel delivering reload failures. A failed reload
// does not stop the watcher; the previous configuration stays in effect.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadFile(w.path, w.base)
			if err != nil {
				w.send(w.errs, err)
				continue
			}
			w.sendCfg(cfg)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(w.errs, err)
		}
	}
}

// sendCfg delivers a config, dropping a stale undelivered one so the
// channel always holds the latest value.
func (w *Watcher) sendCfg(cfg Config) {
	for {
		select {
		case w.cfgs <- cfg:
			return
		case <-w.done:
			return
		default:
			select {
			case <-w.cfgs:
			default:
			}
		}
	}
}

func (w *Watcher) send(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}
