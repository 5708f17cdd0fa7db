// Package watch reports changes to a fixed set of files using fsnotify.
// It backs `kacl fmt --watch`.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for watch events.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Watcher calls a handler after any of its files is written, created, or
// replaced. Parent directories are watched rather than the files themselves
// so that editors which save by renaming a temp file are still seen.
type Watcher struct {
	files    map[string]struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
	mu       sync.Mutex
	closed   bool
}

// New creates a Watcher for the given file paths.
func New(paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	files := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = struct{}{}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{files: files, watcher: watcher, debounce: DefaultDebounce}, nil
}

// SetDebounce changes how long the watcher waits for events to settle.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Files returns the watched absolute paths in sorted order.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Run blocks, calling handle with the absolute path of each changed file,
// until ctx is cancelled or the watcher is closed. Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context, handle func(path string)) error {
	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logDebug("[watch] debug: %s %s", event.Op, event.Name)
			pending[filepath.Clean(event.Name)] = struct{}{}
			timer.Reset(w.debounce)
		case <-timer.C:
			for _, f := range sortedKeys(pending) {
				handle(f)
			}
			clear(pending)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// relevant reports whether the event changes the content of a watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if _, ok := w.files[filepath.Clean(event.Name)]; !ok {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
