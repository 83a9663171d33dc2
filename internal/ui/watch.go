package ui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes of a single file. The parent directory is watched
// so that editors replacing the file through a rename are still seen.
type Watcher struct {
	fw   *fsnotify.Watcher
	path string
}

// NewWatcher starts watching path
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	return &Watcher{fw: fw, path: abs}, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Wait blocks until the file is written or recreated. The returned message is
// nil once the watcher has been closed.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.fw.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					return fileChangedMsg{watcher: w, path: w.path}
				}
			case err, ok := <-w.fw.Errors:
				if !ok {
					return nil
				}
				return watchErrorMsg{watcher: w, err: err}
			}
		}
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.fw.Close()
}
