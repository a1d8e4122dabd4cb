// Package watch re-runs an analysis when its input files are written.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before its change is
// reported.
const DefaultDebounce = 300 * time.Millisecond

// Watcher monitors a fixed set of files for changes. It watches their
// parent directories, so editors that replace a file by renaming over it
// are still noticed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	logger    *slog.Logger
	files     map[string]bool
	onChange  func(path string)

	mu      sync.Mutex
	pending map[string]time.Time
}

// Option is a functional option for configuring Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a watcher that calls onChange with the path of each changed
// file. Callbacks run one at a time.
func New(files []string, onChange func(path string), opts ...Option) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("watch: no files to watch")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debounce:  DefaultDebounce,
		logger:    slog.New(slog.DiscardHandler),
		files:     make(map[string]bool, len(files)),
		onChange:  onChange,
		pending:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return w, nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Run processes events until ctx is done, then returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, time.Now())

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			for _, path := range w.ready(now) {
				if w.onChange != nil {
					w.onChange(path)
				}
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, at time.Time) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.files[path] {
		return
	}

	w.mu.Lock()
	w.pending[path] = at
	w.mu.Unlock()
}

// ready removes and returns the files quiet for the debounce period.
func (w *Watcher) ready(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var paths []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			paths = append(paths, path)
		}
	}
	for _, path := range paths {
		delete(w.pending, path)
	}
	sort.Strings(paths)
	return paths
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
