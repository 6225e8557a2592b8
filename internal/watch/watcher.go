// BYZRA ⸻ internal/watch/watcher.go
// file system monitoring for watch mode

package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"reclaim/internal/logging"
	"reclaim/internal/media"
)

// processes a settled file, returning the path it ended up at
type Handler func(ctx context.Context, path string) (string, error)

// configures the watcher behavior
type Options struct {
	// min time since the last write before processing (avoid incomplete files)
	MinFileAge time.Duration

	// a processed path is ignored for this long
	Dedupe time.Duration

	// directories to exclude, matched as path substrings
	ExcludeDirs []string

	// how often pending files are checked
	Tick time.Duration

	// concurrent handlers
	Workers int
}

func (o *Options) defaults() {
	if o.MinFileAge <= 0 {
		o.MinFileAge = 2 * time.Second
	}
	if o.Dedupe <= 0 {
		o.Dedupe = time.Minute
	}
	if o.Tick <= 0 {
		o.Tick = 500 * time.Millisecond
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
}

type Watcher struct {
	fs      *fsnotify.Watcher
	root    string
	options Options
	handler Handler
	logger  *logging.Logger

	mu        sync.Mutex
	pending   map[string]time.Time // last event per path
	inflight  map[string]bool
	processed map[string]time.Time
}

func New(root string, options Options, handler Handler, logger *logging.Logger) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("invalid watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if logger == nil {
		logger = logging.Nop()
	}
	options.defaults()

	return &Watcher{
		fs:        fsWatcher,
		root:      root,
		options:   options,
		handler:   handler,
		logger:    logger,
		pending:   make(map[string]time.Time),
		inflight:  make(map[string]bool),
		processed: make(map[string]time.Time),
	}, nil
}

// watches until ctx is done, then waits for running handlers
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	w.addTree(w.root, false)
	w.logger.Info("File watcher started on " + w.root)

	var g errgroup.Group
	g.SetLimit(w.options.Workers)

	ticker := time.NewTicker(w.options.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.Wait()
			w.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				g.Wait()
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				g.Wait()
				return nil
			}
			w.logger.Error(fmt.Sprintf("Watcher error: %v", err))

		case <-ticker.C:
			w.dispatchReady(ctx, &g)
		}
	}
}

func (w *Watcher) excluded(path string) bool {
	for _, exclude := range w.options.ExcludeDirs {
		if exclude != "" && strings.Contains(path, exclude) {
			return true
		}
	}
	return false
}

// watches dir and every subdirectory; with queue, media already inside is queued
func (w *Watcher) addTree(dir string, queue bool) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warning(fmt.Sprintf("Error accessing path %s: %v", path, err))
			return nil
		}

		if !d.IsDir() {
			if queue && media.IsCandidate(d.Name()) {
				w.queue(path)
			}
			return nil
		}

		if w.excluded(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warning(fmt.Sprintf("Failed to watch directory %s: %v", path, err))
		} else {
			w.logger.Debug("Watching directory: " + path)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	path := event.Name
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !w.excluded(path) {
			w.addTree(path, true)
		}
		return
	}

	if media.IsCandidate(filepath.Base(path)) {
		w.queue(path)
	}
}

func (w *Watcher) queue(path string) {
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// starts handlers for settled files; busy pool leaves them pending
func (w *Watcher) dispatchReady(ctx context.Context, g *errgroup.Group) {
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	for path, at := range w.processed {
		if now.Sub(at) >= w.options.Dedupe {
			delete(w.processed, path)
		}
	}

	for path, last := range w.pending {
		if now.Sub(last) < w.options.MinFileAge || w.inflight[path] {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			delete(w.pending, path)
			continue
		}
		if now.Sub(info.ModTime()) < w.options.MinFileAge {
			continue
		}

		if _, seen := w.processed[path]; seen {
			delete(w.pending, path)
			continue
		}

		started := g.TryGo(func() error {
			w.run(ctx, path)
			return nil
		})
		if !started {
			return
		}
		delete(w.pending, path)
		w.inflight[path] = true
	}
}

func (w *Watcher) run(ctx context.Context, path string) {
	w.logger.Debug("Processing file: " + path)
	final, err := w.handler(ctx, path)

	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, path)

	if err != nil {
		w.logger.Error(fmt.Sprintf("Failed to process file %s: %v", path, err))
		return
	}

	now := time.Now()
	w.processed[path] = now
	if final != "" && final != path {
		w.processed[final] = now
	}
	w.logger.Info("Successfully processed file: " + path)
}
