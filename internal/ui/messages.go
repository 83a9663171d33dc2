package ui

import "time"

// tickMsg drives the auto-analyze timer
type tickMsg time.Time

// openFileMsg asks the model to load a file
type openFileMsg struct {
	path string
}

// fileChangedMsg reports a write to the watched file
type fileChangedMsg struct {
	watcher *Watcher
	path    string
}

// watchErrorMsg reports a failure of the file watcher
type watchErrorMsg struct {
	watcher *Watcher
	err     error
}
