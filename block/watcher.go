package block

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures a definitions-directory watcher.
type WatcherConfig struct {
	// Dir is the definitions directory to watch.
	Dir string

	// DebounceDelay is how long to wait for more changes before reloading.
	DebounceDelay time.Duration

	// Logger for watch events.
	Logger *slog.Logger
}

// Watcher watches a definitions directory and emits a freshly loaded Store
// after each debounced batch of changes to *.json files. Each emitted Store
// is an independent immutable snapshot; a pipeline run keeps the snapshot it
// was constructed with.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	dirty     bool

	stores chan *Store
}

// NewWatcher creates a watcher for the given definitions directory.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = 250 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		stores:  make(chan *Store, 1),
	}, nil
}

// Stores returns the channel of reloaded definition stores.
func (w *Watcher) Stores() <-chan *Store {
	return w.stores
}

// Start begins watching. It returns after registering the watches; reloads
// are delivered on Stores until ctx is canceled. The whole directory tree is
// watched, matching the recursive glob LoadDir uses.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.config.Dir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("definitions watcher started",
		"dir", w.config.Dir,
		"debounce", w.config.DebounceDelay)
	return nil
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// addTree registers a watch on dir and every directory beneath it. fsnotify
// watches are not recursive, so each level needs its own registration.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory",
							"dir", event.Name, "error", err)
					}
					break
				}
			}
			if strings.EqualFold(filepath.Ext(event.Name), ".json") &&
				event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.pendingMu.Lock()
				w.dirty = true
				w.pendingMu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("definitions watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	dirty := w.dirty
	w.dirty = false
	w.pendingMu.Unlock()

	if !dirty {
		return
	}

	store, err := LoadDir(w.config.Dir)
	if err != nil {
		w.logger.Warn("definitions reload failed, keeping previous store",
			"dir", w.config.Dir,
			"error", err)
		return
	}

	// Replace any undelivered snapshot; consumers only want the latest.
	select {
	case <-w.stores:
	default:
	}
	w.stores <- store

	w.logger.Info("definitions reloaded",
		"building_blocks", len(store.BuildingBlocks()),
		"complex_blocks", store.ComplexCount())
}
