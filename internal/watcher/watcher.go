// Package watcher triggers reindex runs when the build output changes.
//
// Unlike an incremental indexer, the watcher carries no per-file state:
// every settled burst of file events produces one signal, and the
// caller responds with a full blue/green reindex run.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceWindow is how long the tree must stay quiet before a
// rebuild signal fires. Static-site builds write many files in quick
// succession; one run per build is the goal.
const DefaultDebounceWindow = 2 * time.Second

// Watcher watches a directory tree and emits a signal per settled
// burst of changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *debouncer
	root      string
}

// New creates a watcher with the given debounce window.
// A zero window uses DefaultDebounceWindow.
func New(window time.Duration) (*Watcher, error) {
	if window <= 0 {
		window = DefaultDebounceWindow
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		debouncer: newDebouncer(window),
	}, nil
}

// Signals returns the channel that fires once per settled change burst.
func (w *Watcher) Signals() <-chan struct{} {
	return w.debouncer.C
}

// Start watches root recursively until the context is cancelled.
// Directories created while watching are added to the watch set.
func (w *Watcher) Start(ctx context.Context, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}
	w.root = absRoot

	if err := w.addRecursive(absRoot); err != nil {
		return fmt.Errorf("add directories to watcher: %w", err)
	}

	defer w.debouncer.stop()
	defer func() { _ = w.fsWatcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	slog.Debug("file event",
		slog.String("path", event.Name),
		slog.String("op", event.Op.String()))

	// New directories must join the watch set; builds create fresh
	// directory trees.
	if event.Op.Has(fsnotify.Create) {
		if err := w.addRecursive(event.Name); err != nil {
			slog.Debug("could not watch new path",
				slog.String("path", event.Name),
				slog.String("error", err.Error()))
		}
	}

	w.debouncer.bump()
}

// addRecursive adds path and all directories below it to the watch set.
// Non-directory paths are ignored.
func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// The entry may already be gone; builds delete trees too.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsWatcher.Add(p); err != nil {
			slog.Warn("failed to watch directory",
				slog.String("path", p),
				slog.String("error", err.Error()))
		}
		return nil
	})
}
