// Package watch re-runs analysis when Swift files under a directory change.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/panbanda/swiftcx/pkg/config"
	"github.com/panbanda/swiftcx/pkg/parser"
)

// DefaultDebounce is how long a file must stay unchanged before its handler runs.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called with the absolute path of a changed Swift file.
type Handler func(ctx context.Context, path string)

// Watcher monitors a directory tree for Swift file changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	debounce  time.Duration
	root      string
	handler   Handler
	out       io.Writer
	colored   bool

	mu      sync.Mutex
	pending map[string]time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is handled.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithConfig sets the exclusion configuration.
func WithConfig(cfg *config.Config) Option {
	return func(w *Watcher) {
		if cfg != nil {
			w.config = cfg
		}
	}
}

// WithOutput sets where status lines are written. Defaults to stdout.
func WithOutput(out io.Writer, colored bool) Option {
	return func(w *Watcher) {
		w.out = out
		w.colored = colored
	}
}

// New creates a watcher over root that calls handler for changed files.
func New(root string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch target %s is not a directory", root)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		config:    config.DefaultConfig(),
		debounce:  DefaultDebounce,
		root:      abs,
		handler:   handler,
		out:       os.Stdout,
		pending:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// addTree registers dir and every non-excluded directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != w.root && w.excluded(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) excluded(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return w.config.ShouldExclude(rel)
}

// Run watches until ctx is canceled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}

	w.status(color.FgCyan, "Watching for changes in %s...", w.root)
	w.status(color.FgCyan, "Press Ctrl+C to stop")

	var wg sync.WaitGroup
	defer wg.Wait()
	// Close ends the event loop without canceling the caller's context, so
	// the debounce loop needs its own. cancel runs before wg.Wait.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.processDebounced(ctx)
	}()

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
			w.status(color.FgRed, "Watch error: %v", err)
		}
	}
}

// handleEvent records Swift writes and follows newly created directories.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	path := event.Name
	if w.excluded(path) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			_ = w.addTree(path)
			return
		}
	}

	if !parser.IsSwiftFile(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(w.debounce / 5)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, path := range w.ready(time.Now()) {
				w.run(ctx, path)
			}
		}
	}
}

// ready removes and returns the files that have been stable for the
// debounce period, sorted.
func (w *Watcher) ready(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var paths []string
	for path, lastMod := range w.pending {
		if now.Sub(lastMod) >= w.debounce {
			paths = append(paths, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(paths)
	return paths
}

func (w *Watcher) run(ctx context.Context, path string) {
	if w.handler == nil {
		return
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	w.status(color.FgYellow, "\nFile changed: %s", rel)
	w.handler(ctx, path)
}

func (w *Watcher) status(attr color.Attribute, format string, args ...any) {
	if w.colored {
		color.New(attr).Fprintf(w.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// WatchedDirs returns the directories currently being watched.
func (w *Watcher) WatchedDirs() []string {
	return w.fsWatcher.WatchList()
}
