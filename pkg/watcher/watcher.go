// Package watcher reports changes to a set of input files.
//
// Each file's directory is watched rather than the file itself so that
// editors which replace a file by renaming a temporary over it keep
// triggering events. Bursts of events are coalesced: the callback runs
// once the files have been quiet for the debounce interval.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when no interval is configured.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls a function after any watched file changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	onChange func()
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before the callback runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger used for watch events and errors.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching the directories of paths. onChange runs on the
// goroutine calling Run.
func New(paths []string, onChange func(), opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]bool, len(paths)),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("input changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			// Errors are logged but don't stop the watcher
			w.logger.Debug("watch error", "err", err)
		}
	}
}

// Close stops the watcher; a running Run returns.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return w.files[filepath.Clean(event.Name)]
}
