package rules

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceWindow coalesces editor save bursts into one reload.
const DefaultDebounceWindow = 500 * time.Millisecond

// ReloadFunc is invoked after corpus files change, with the directory that
// changed. Implementations typically call LoadDir and rebuild the engine's
// indexes before swapping them in. A reload error is logged and the watcher
// keeps running; a half-saved file usually succeeds on the next event.
type ReloadFunc func(ctx context.Context, dir string) error

// Watcher watches a rules directory and triggers debounced reloads when
// corpus files are created, modified, renamed, or removed.
type Watcher struct {
	dir    string
	window time.Duration
	reload ReloadFunc
	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewWatcher creates a watcher for dir. Call Run to start receiving events.
func NewWatcher(dir string, reload ReloadFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{
		dir:    dir,
		window: DefaultDebounceWindow,
		reload: reload,
		fsw:    fsw,
	}, nil
}

// Run processes filesystem events until the context is cancelled.
// Blocks; run in a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("corpus_file_event",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()))
			w.scheduleReload(ctx)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("corpus_watch_error", slog.String("error", err.Error()))
		}
	}
}

// Close stops the watcher and cancels any pending reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.fsw.Close()
}

// relevant filters for YAML corpus files; editors produce events for
// swap/backup files that must not trigger reloads.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".yaml" || ext == ".yml"
}

// scheduleReload arms (or re-arms) the debounce timer.
func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.window, func() {
		if ctx.Err() != nil {
			return
		}
		slog.Info("corpus_reload_triggered", slog.String("dir", w.dir))
		if err := w.reload(ctx, w.dir); err != nil {
			slog.Warn("corpus_reload_failed", slog.String("error", err.Error()))
		}
	})
}
