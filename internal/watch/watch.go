// Package watch monitors a registry tree and reports settled file
// changes, so validation can re-run while an author edits documents.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openhands/skillctl/internal/errors"
)

const (
	// debounceWindow is how long a path must stay quiet before its
	// change is reported. Editors fire several events per save.
	debounceWindow = 500 * time.Millisecond
	// sweepInterval is how often settled changes are collected.
	sweepInterval = 100 * time.Millisecond
)

// Watcher watches a registry tree for skill and plugin file changes.
// Changed paths are batched per debounce window and handed to a single
// callback, so one save that touches several files triggers one
// re-validation.
type Watcher struct {
	root     string
	onChange func(paths []string)
	logger   *slog.Logger

	watcher    *fsnotify.Watcher
	debounce   time.Duration
	sweepEvery time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
	running bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a watcher over the registry tree rooted at root.
// onChange receives each settled batch of changed paths.
func New(root string, onChange func(paths []string)) (*Watcher, error) {
	return NewWithLogger(root, onChange, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))
}

// NewWithLogger creates a watcher with the given logger.
func NewWithLogger(root string, onChange func(paths []string), logger *slog.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("onChange callback is required")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	return &Watcher{
		root:       root,
		onChange:   onChange,
		logger:     logger,
		watcher:    fw,
		debounce:   debounceWindow,
		sweepEvery: sweepInterval,
		pending:    make(map[string]time.Time),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}, nil
}

// Start registers the tree with the underlying watcher and begins
// reporting changes. It returns once watching is established; events
// are processed on a background goroutine until ctx is cancelled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already started")
	}
	if err := w.addTree(w.root); err != nil {
		return errors.Wrapf(err, "watching %s", w.root)
	}
	w.running = true
	go w.run(ctx)
	return nil
}

// Stop halts event processing and closes the underlying watcher.
// It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	return w.watcher.Close()
}

// addTree registers root and every non-hidden directory below it.
// fsnotify watches are per-directory, not recursive.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		case <-ticker.C:
			w.sweep()
		}
	}
}

// handleEvent records a relevant event for debounced reporting. New
// directories are added to the watch set immediately so documents
// created inside them are seen.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				return
			}
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Warn("could not watch new directory",
					"path", event.Name,
					"error", err)
			}
			return
		}
	}
	if !relevant(event) {
		return
	}
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// relevant reports whether an event can change a validation outcome.
// Hidden files are editor droppings. Chmod matters for hook scripts
// because the executable bit is part of what validation checks.
func relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch {
	case strings.HasSuffix(base, ".md"):
		return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
	case strings.HasSuffix(base, ".sh"):
		return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) != 0
	}
	return false
}

// sweep reports paths whose last event is older than the debounce
// window. Paths still being written stay pending.
func (w *Watcher) sweep() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(settled) == 0 {
		return
	}
	sort.Strings(settled)
	w.onChange(settled)
}
