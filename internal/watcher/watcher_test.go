package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"encodeflow/internal/logging"
	"encodeflow/internal/queue"
	"encodeflow/internal/readiness"
	"encodeflow/internal/testsupport"
	"encodeflow/internal/watcher"
)

type switchChecker struct {
	ready atomic.Bool
	calls atomic.Int64
}

func (c *switchChecker) IsReady(string) bool {
	c.calls.Add(1)
	return c.ready.Load()
}

func startWatcher(t *testing.T, w *watcher.Watcher) {
	t.Helper()
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
}

func TestWatcherQueuesReadyFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	primary := queue.NewFIFO()
	w := watcher.New(cfg, primary, readiness.Prober{}, logging.NewNop())
	startWatcher(t, w)

	path := filepath.Join(cfg.Paths.WatchDir, "a.mov")
	testsupport.WriteFile(t, path, 128)

	testsupport.WaitFor(t, 5*time.Second, "job queued", func() bool { return primary.Len() == 1 })
	job, ok := primary.Pop()
	if !ok || job.Path != path || job.Attempt != 0 {
		t.Fatalf("unexpected job %+v", job)
	}
	if w.Queued() != 1 {
		t.Fatalf("expected one queued job, got %d", w.Queued())
	}
}

func TestWatcherAppliesFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFilter("*.mov"))
	primary := queue.NewFIFO()
	startWatcher(t, watcher.New(cfg, primary, readiness.Prober{}, logging.NewNop()))

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WatchDir, "notes.txt"), 16)
	wanted := filepath.Join(cfg.Paths.WatchDir, "b.mov")
	testsupport.WriteFile(t, wanted, 16)

	testsupport.WaitFor(t, 5*time.Second, "matching job queued", func() bool { return primary.Len() >= 1 })
	time.Sleep(100 * time.Millisecond)
	snapshot := primary.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Path != wanted {
		t.Fatalf("expected only %s queued, got %+v", wanted, snapshot)
	}
}

func TestWatcherIgnoresNewDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	primary := queue.NewFIFO()
	w := watcher.New(cfg, primary, readiness.Prober{}, logging.NewNop())
	startWatcher(t, w)

	if err := os.Mkdir(filepath.Join(cfg.Paths.WatchDir, "season1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	marker := filepath.Join(cfg.Paths.WatchDir, "marker.mov")
	testsupport.WriteFile(t, marker, 8)

	testsupport.WaitFor(t, 5*time.Second, "marker queued", func() bool { return primary.Len() == 1 })
	if w.Waiting() != 0 {
		t.Fatalf("directory must not wait for readiness, waiting=%d", w.Waiting())
	}
}

func TestWatcherPollsUntilReady(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	primary := queue.NewFIFO()
	checker := &switchChecker{}
	w := watcher.New(cfg, primary, checker, logging.NewNop())
	startWatcher(t, w)

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WatchDir, "slow.mov"), 8)
	testsupport.WaitFor(t, 5*time.Second, "repeated probes", func() bool { return checker.calls.Load() >= 3 })
	if primary.Len() != 0 {
		t.Fatal("file must not be queued before it is ready")
	}
	if w.Waiting() != 1 {
		t.Fatalf("expected one pending wait, got %d", w.Waiting())
	}

	checker.ready.Store(true)
	testsupport.WaitFor(t, 5*time.Second, "job queued", func() bool { return primary.Len() == 1 })
	testsupport.WaitFor(t, time.Second, "wait released", func() bool { return w.Waiting() == 0 })
}

func TestWatcherPendingWaitsDoNotBlockOtherEvents(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	primary := queue.NewFIFO()
	blocked := filepath.Join(cfg.Paths.WatchDir, "blocked.mov")
	checker := &pathChecker{blocked: blocked}
	startWatcher(t, watcher.New(cfg, primary, checker, logging.NewNop()))

	testsupport.WriteFile(t, blocked, 8)
	free := filepath.Join(cfg.Paths.WatchDir, "free.mov")
	testsupport.WriteFile(t, free, 8)

	testsupport.WaitFor(t, 5*time.Second, "free file queued", func() bool { return primary.Len() == 1 })
	if job, _ := primary.Pop(); job.Path != free {
		t.Fatalf("expected %s, got %s", free, job.Path)
	}
}

type pathChecker struct {
	blocked string
}

func (c *pathChecker) IsReady(path string) bool {
	return path != c.blocked
}

func TestWatcherAbandonsVanishedFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	w := watcher.New(cfg, queue.NewFIFO(), &switchChecker{}, logging.NewNop())
	startWatcher(t, w)

	path := filepath.Join(cfg.Paths.WatchDir, "temp.part")
	testsupport.WriteFile(t, path, 8)
	testsupport.WaitFor(t, 5*time.Second, "pending wait", func() bool { return w.Waiting() == 1 })
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	testsupport.WaitFor(t, 5*time.Second, "wait abandoned", func() bool { return w.Waiting() == 0 })
}

func TestWatcherStopAbandonsPendingWaits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	w := watcher.New(cfg, queue.NewFIFO(), &switchChecker{}, logging.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WatchDir, "never.mov"), 8)
	testsupport.WaitFor(t, 5*time.Second, "pending wait", func() bool { return w.Waiting() == 1 })

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	if w.Waiting() != 0 || w.Running() {
		t.Fatalf("expected stopped watcher, waiting=%d running=%v", w.Waiting(), w.Running())
	}
}

func TestWatcherStartFailsForMissingDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.WatchDir = filepath.Join(t.TempDir(), "absent")
	w := watcher.New(cfg, queue.NewFIFO(), nil, logging.NewNop())
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected Start to fail for a missing directory")
	}
	if w.Running() {
		t.Fatal("watcher must not be running after a failed start")
	}
}
