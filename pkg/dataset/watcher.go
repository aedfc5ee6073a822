package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/callisto/pkg/loader"
	"mercator-hq/callisto/pkg/telemetry/logging"
)

// WatcherConfig contains configuration for the source watcher.
type WatcherConfig struct {
	// DataDir is the data directory to watch.
	DataDir string

	// SchemasDir is the schema directory to watch. May equal or live
	// inside DataDir.
	SchemasDir string

	// DebounceInterval is the quiet period after the last event on a
	// path before its callback fires. Editors emit bursts of writes;
	// one invalidation per burst is enough.
	DebounceInterval time.Duration
}

// Watcher invalidates cached state when source or schema files change
// on disk. Events are debounced per path. Watcher failures are logged
// and never surface to dataset operations.
type Watcher struct {
	watcher  *fsnotify.Watcher
	config   *WatcherConfig
	onData   func(path string)
	onSchema func(path string)
	logger   *logging.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher over the data and schema directories.
// onData fires for a changed source file, onSchema for a changed
// schema file.
func NewWatcher(cfg *WatcherConfig, onData, onSchema func(path string), logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		config:   cfg,
		onData:   onData,
		onSchema: onSchema,
		logger:   logger.Component("dataset.watcher"),
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start registers the watched directories and launches the event loop.
// The watcher only becomes running once the loop is up; after a failed
// Start, Stop just releases the fsnotify handle.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.mu.Unlock()

	if err := w.addDir(w.config.DataDir); err != nil {
		return err
	}
	if w.config.SchemasDir != w.config.DataDir {
		// The schemas dir may not exist yet; that only disables
		// schema events.
		if err := w.addDir(w.config.SchemasDir); err != nil {
			w.logger.Warn("schemas directory not watched", "dir", w.config.SchemasDir, "error", err)
		}
	}

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()
	go w.loop()

	w.logger.Info("file watcher started",
		"data_dir", w.config.DataDir,
		"schemas_dir", w.config.SchemasDir,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)
	return nil
}

// Stop shuts the watcher down and cancels pending debounce timers.
// Safe after a failed Start: the loop is only awaited when it was
// actually launched.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("watcher close failed", "error", err)
	}
	if wasRunning {
		w.logger.Info("file watcher stopped")
	}
}

// loop processes fsnotify events until Stop.
func (w *Watcher) loop() {
	defer close(w.doneCh)

	for {
		select {
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
			// Keep watching despite errors.
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// handleEvent filters and debounces one fsnotify event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return
	}

	isSchema := w.inSchemasDir(event.Name)
	if isSchema {
		if strings.ToLower(filepath.Ext(base)) != ".json" {
			return
		}
	} else if _, ok := loader.FormatForPath(base); !ok {
		return
	}

	w.logger.Debug("file event",
		"path", event.Name,
		"op", event.Op.String(),
		"schema", isSchema,
	)

	callback := w.onData
	if isSchema {
		callback = w.onSchema
	}
	w.debounce(event.Name, callback)
}

// debounce schedules the callback after the quiet period, resetting
// the path's timer on every new event.
func (w *Watcher) debounce(path string, callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.config.DebounceInterval, func() {
		w.mu.Lock()
		delete(w.timers, path)
		running := w.running
		w.mu.Unlock()

		if running && callback != nil {
			callback(path)
		}
	})
}

// inSchemasDir reports whether the path lives under the schemas
// directory.
func (w *Watcher) inSchemasDir(path string) bool {
	rel, err := filepath.Rel(w.config.SchemasDir, path)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}

// addDir registers a directory with the fsnotify watcher.
func (w *Watcher) addDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %q: not a directory", dir)
	}
	return w.watcher.Add(dir)
}
