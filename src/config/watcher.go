package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"livecode-ls/src/internal/async"
	"livecode-ls/src/internal/common"
)

// Watcher observes the active configuration file and reports changes so the
// server can reload settings and resume a paused validation pipeline.
// Editors typically replace config files via rename, so the parent
// directory is watched rather than the file itself.
type Watcher struct {
	path     string
	delayer  *async.Delayer
	watcher  *fsnotify.Watcher
	onChange func()
	done     chan struct{}
}

// NewWatcher creates a watcher for the given config file path. onChange runs
// debounced on a background goroutine after the file is created, written or
// replaced.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		path:     path,
		delayer:  async.NewDelayer(200 * time.Millisecond),
		watcher:  fsw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isConfigEvent(event) {
				continue
			}
			common.ServerLogger.Debug("Config file event: %s", event)
			w.delayer.Trigger(w.onChange)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			common.ServerLogger.Warn("Config watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops watching and drops any pending notification
func (w *Watcher) Close() error {
	close(w.done)
	w.delayer.Cancel()
	return w.watcher.Close()
}
