package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"encodeflow/internal/config"
	"encodeflow/internal/deps"
	"encodeflow/internal/encoding"
	"encodeflow/internal/logging"
	"encodeflow/internal/preflight"
	"encodeflow/internal/queue"
	"encodeflow/internal/readiness"
	"encodeflow/internal/watcher"
	"encodeflow/internal/workflow"
)

// Daemon coordinates the pipeline components and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	queues   *queue.Set
	watcher  *watcher.Watcher
	workflow *workflow.Manager
	api      *apiServer

	lockPath string
	lock     *flock.Flock

	// lifecycle serialises Start and Stop. Status must not take it.
	lifecycle sync.Mutex
	running   atomic.Bool
	startedAt atomic.Pointer[time.Time]
	cancel    context.CancelFunc
}

// WatcherStatus summarises the arrival watcher.
type WatcherStatus struct {
	Running bool   `json:"running"`
	Dir     string `json:"dir"`
	Filter  string `json:"filter"`
	Waiting int    `json:"waiting"`
	Queued  int64  `json:"queued"`
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool                   `json:"running"`
	PID          int                    `json:"pid"`
	StartedAt    time.Time              `json:"started_at,omitzero"`
	LockFilePath string                 `json:"lock_file"`
	OutputDir    string                 `json:"output_dir"`
	Watcher      WatcherStatus          `json:"watcher"`
	Workflow     workflow.StatusSummary `json:"workflow"`
	Dependencies []deps.Status          `json:"dependencies"`
}

// QueueSnapshot lists the jobs waiting in each lane in dispatch order.
type QueueSnapshot struct {
	Primary []queue.Job `json:"primary"`
	Retry   []queue.Job `json:"retry"`
}

// New constructs a daemon around already-built components.
func New(cfg *config.Config, logger *slog.Logger, queues *queue.Set, w *watcher.Watcher, wf *workflow.Manager) (*Daemon, error) {
	if cfg == nil || queues == nil || w == nil || wf == nil {
		return nil, errors.New("daemon requires config, queues, watcher, and workflow manager")
	}
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		queues:   queues,
		watcher:  w,
		workflow: wf,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.api = newAPIServer(cfg, d, d.logger)
	return d, nil
}

// Build assembles the full pipeline from configuration.
func Build(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	queues := queue.NewSet()
	checker := readiness.New(cfg.Watch.RequireStableSize)
	w := watcher.New(cfg, queues.Primary, checker, logger)
	wf := workflow.NewManager(cfg, queues, encoding.NewInvoker(cfg), logger)
	return New(cfg, logger, queues, w, wf)
}

// Start acquires the lock and brings the pipeline up.
func (d *Daemon) Start(ctx context.Context) error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another encodeflow instance is already running (lock %s)", d.lockPath)
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.workflow.Start(runCtx); err != nil {
		d.abortStart(cancel)
		return fmt.Errorf("start workflow: %w", err)
	}
	if err := d.watcher.Start(runCtx); err != nil {
		d.workflow.Stop()
		d.abortStart(cancel)
		return fmt.Errorf("start watcher: %w", err)
	}
	if err := d.api.start(runCtx); err != nil {
		d.watcher.Stop()
		d.workflow.Stop()
		d.abortStart(cancel)
		return fmt.Errorf("start status api: %w", err)
	}

	d.cancel = cancel
	now := time.Now()
	d.startedAt.Store(&now)
	d.running.Store(true)
	d.logger.Info("encodeflow daemon started", logging.String("lock", d.lockPath))
	return nil
}

func (d *Daemon) abortStart(cancel context.CancelFunc) {
	cancel()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}

// Stop halts detection, lets the in-flight encode finish, and releases the
// lock.
func (d *Daemon) Stop() {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()
	if !d.running.Load() {
		return
	}

	d.watcher.Stop()
	d.workflow.Stop()
	d.api.stop()
	d.cancel()
	d.cancel = nil
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	primary, retry := d.queues.Depths()
	d.logger.Info("encodeflow daemon stopped",
		logging.Int("abandoned_primary", primary),
		logging.Int("abandoned_retry", retry),
	)
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// APIAddr returns the status API listen address, or "" when it is disabled or
// not yet listening.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	var startedAt time.Time
	if ts := d.startedAt.Load(); ts != nil {
		startedAt = *ts
	}

	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		StartedAt:    startedAt,
		LockFilePath: d.lockPath,
		OutputDir:    d.cfg.Paths.OutputDir,
		Watcher: WatcherStatus{
			Running: d.watcher.Running(),
			Dir:     d.cfg.Paths.WatchDir,
			Filter:  d.cfg.Watch.Filter,
			Waiting: d.watcher.Waiting(),
			Queued:  d.watcher.Queued(),
		},
		Workflow:     d.workflow.Status(),
		Dependencies: preflight.CheckSystemDeps(d.cfg),
	}
}

// Queue returns a snapshot of both lanes.
func (d *Daemon) Queue() QueueSnapshot {
	return QueueSnapshot{
		Primary: d.queues.Primary.Snapshot(),
		Retry:   d.queues.Retry.Snapshot(),
	}
}
