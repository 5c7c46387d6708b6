package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/fsnotify/fsnotify"

	"encodeflow/internal/config"
	"encodeflow/internal/logging"
	"encodeflow/internal/queue"
	"encodeflow/internal/readiness"
)

// Watcher feeds the primary queue from filesystem events.
type Watcher struct {
	root         string
	filter       string
	pollInterval time.Duration
	checker      readiness.Checker
	primary      *queue.FIFO
	logger       *slog.Logger

	mu      sync.Mutex
	running bool
	fs      *fsnotify.Watcher
	cancel  context.CancelFunc
	loopWG  sync.WaitGroup
	waitWG  sync.WaitGroup
	waiting atomic.Int64
	queued  atomic.Int64
}

// New constructs a Watcher for cfg's watch directory.
func New(cfg *config.Config, primary *queue.FIFO, checker readiness.Checker, logger *slog.Logger) *Watcher {
	if checker == nil {
		checker = readiness.New(cfg.Watch.RequireStableSize)
	}
	return &Watcher{
		root:         cfg.Paths.WatchDir,
		filter:       cfg.Watch.Filter,
		pollInterval: cfg.ReadinessPollInterval(),
		checker:      checker,
		primary:      primary,
		logger:       logging.NewComponentLogger(logger, "watcher"),
	}
}

// Start subscribes to the watch directory and begins handling events. It fails
// when the directory cannot be watched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory %q is not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(w.root); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", w.root, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.fs = fsw
	w.cancel = cancel
	w.running = true

	w.loopWG.Add(1)
	go w.loop(runCtx, fsw)

	w.logger.Info("watching for new files",
		logging.String("watch_dir", w.root),
		logging.String("filter", w.filter),
		logging.Duration("readiness_poll", w.pollInterval),
	)
	return nil
}

// Stop unsubscribes, abandons pending readiness waits, and waits for every
// goroutine the watcher started to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	fsw := w.fs
	w.running = false
	w.cancel = nil
	w.fs = nil
	w.mu.Unlock()

	cancel()
	if err := fsw.Close(); err != nil {
		w.logger.Warn("closing fsnotify watcher failed", logging.Error(err))
	}
	w.loopWG.Wait()
	w.waitWG.Wait()
}

// Running reports whether the watcher is subscribed.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Waiting reports how many detected files are still waiting to become ready.
func (w *Watcher) Waiting() int {
	return int(w.waiting.Load())
}

// Queued reports how many jobs the watcher has pushed since construction.
func (w *Watcher) Queued() int64 {
	return w.queued.Load()
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.loopWG.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.handleError(err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Name == w.root && (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
		logging.ErrorWithContext(w.logger, "watch directory removed; no further files will be detected", "watch_root_removed",
			logging.String("watch_dir", w.root),
			logging.String(logging.FieldErrorHint, "recreate the directory and restart encodeflow"),
		)
		return
	}
	if !event.Has(fsnotify.Create) {
		return
	}
	name := filepath.Base(event.Name)
	if !Matches(w.filter, name) {
		w.logger.Debug("ignoring file outside filter", logging.String("file", name))
		return
	}
	if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
		w.logger.Debug("ignoring new directory", logging.String("file", name))
		return
	}

	w.logger.Info("file detected",
		logging.String("file", name),
		logging.String(logging.FieldEventType, "file_detected"),
	)

	w.waitWG.Add(1)
	w.waiting.Add(1)
	go w.awaitReady(ctx, event.Name)
}

func (w *Watcher) awaitReady(ctx context.Context, path string) {
	defer w.waitWG.Done()
	defer w.waiting.Add(-1)

	logger := w.logger.With(logging.String(logging.FieldJobPath, path))
	for !w.checker.IsReady(path) {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			logger.Info("file vanished before it was ready", logging.String(logging.FieldEventType, "file_vanished"))
			return
		}
		select {
		case <-ctx.Done():
			logger.Debug("readiness wait abandoned")
			return
		case <-time.After(w.pollInterval):
		}
	}

	depth := w.primary.Push(queue.NewJob(path))
	w.queued.Add(1)
	logger.Info("file queued",
		logging.String("file", filepath.Base(path)),
		logging.Int(logging.FieldQueueDepth, depth),
		logging.String(logging.FieldEventType, "file_queued"),
	)
}

func (w *Watcher) handleError(err error) {
	if errors.Is(err, fsnotify.ErrEventOverflow) {
		w.logger.Warn("filesystem event queue overflowed; some new files may be missed",
			logging.Error(err),
			logging.Alert("event_overflow"),
			logging.String(logging.FieldEventType, "watch_overflow"),
			logging.String(logging.FieldErrorHint, "raise fs.inotify.max_queued_events or reduce arrival bursts"),
		)
		return
	}
	logging.ErrorWithContext(w.logger, "filesystem watch error", "watch_error", logging.Error(err))
}
