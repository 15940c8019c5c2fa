// Package watcher provides file system watching with debouncing for
// configuration reloads.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/strata/internal/log"
)

// DefaultDebounce batches rapid file events before a signal.
const DefaultDebounce = 400 * time.Millisecond

// Watcher monitors a set of configuration files and signals changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	paths     map[string]struct{}
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Paths are the files to monitor. Paths that do not exist yet still
	// trigger once created, as long as their parent directory exists.
	Paths []string

	// Debounce batches rapid file events before a signal.
	// Defaults to DefaultDebounce when zero.
	Debounce time.Duration
}

// New creates a watcher over the given file set.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("at least one path is required")
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	paths := make(map[string]struct{}, len(cfg.Paths))
	for _, p := range cfg.Paths {
		paths[filepath.Clean(p)] = struct{}{}
	}

	return &Watcher{
		fsWatcher: fsw,
		paths:     paths,
		debounce:  debounce,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the parent directories of the configured files.
// Returns a channel that receives a signal when any watched file changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	// Watch directories, not files: editors replace files on save, which
	// would invalidate a per-file watch.
	dirs := make(map[string]struct{})
	for p := range w.paths {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	watched := 0
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			log.Debug(log.CatWatch, "Skipping unwatchable directory", "dir", dir, "error", err.Error())
			continue
		}
		watched++
	}
	if watched == 0 {
		return nil, fmt.Errorf("no watchable directories among %d paths", len(w.paths))
	}

	go w.loop()

	log.Info(log.CatWatch, "Watching for changes", "files", len(w.paths), "directories", watched)
	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}
			log.Debug(log.CatWatch, "Change detected", "file", event.Name, "op", event.Op.String())

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatWatch, "Watcher error", "error", err.Error())

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a reload. Writes and
// creates cover in-place saves as well as editors that replace on save.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	_, ok := w.paths[filepath.Clean(event.Name)]
	return ok
}
