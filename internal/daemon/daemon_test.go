package daemon_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"encodeflow/internal/daemon"
	"encodeflow/internal/logging"
	"encodeflow/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.Build(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.Build: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status()
	if !status.Running || !status.Watcher.Running || !status.Workflow.Running {
		t.Fatalf("expected every component running, got %+v", status)
	}
	if status.LockFilePath != filepath.Join(cfg.Paths.LogDir, "encodeflow.lock") {
		t.Fatalf("unexpected lock path %q", status.LockFilePath)
	}
	if status.StartedAt.IsZero() {
		t.Fatal("expected start time")
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	status = d.Status()
	if status.Running || status.Watcher.Running || status.Workflow.Running {
		t.Fatalf("expected daemon to be stopped, got %+v", status)
	}
}

func TestDaemonLockPreventsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.Build(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.Build: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(first.Stop)

	second, err := daemon.Build(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.Build: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected lock contention error")
	}

	first.Stop()
	if err := second.Start(context.Background()); err != nil {
		t.Fatalf("expected start after release, got %v", err)
	}
	second.Stop()
}

func TestDaemonStartFailsWithoutWatchDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.Remove(cfg.Paths.WatchDir); err != nil {
		t.Fatalf("remove watch dir: %v", err)
	}
	d, err := daemon.Build(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.Build: %v", err)
	}
	if err := d.Start(context.Background()); err == nil {
		d.Stop()
		t.Fatal("expected start to fail for a missing watch directory")
	}
	if d.Status().Running || d.Status().Workflow.Running {
		t.Fatal("failed start must leave nothing running")
	}

	// The lock is released after a failed start.
	if err := os.MkdirAll(cfg.Paths.WatchDir, 0o755); err != nil {
		t.Fatalf("recreate watch dir: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	d.Stop()
}

func TestDaemonEncodesDroppedFile(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithFilter("*.mov"),
		testsupport.WithEncoderScript("cp \"$2\" \"$4\"\n"),
		testsupport.WithAPIBind("127.0.0.1:0"),
	)
	d, err := daemon.Build(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.Build: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(d.Stop)

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WatchDir, "clip.mov"), 256)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WatchDir, "ignored.txt"), 8)

	output := filepath.Join(cfg.Paths.OutputDir, "clip.mov")
	testsupport.WaitFor(t, 10*time.Second, "encoded output", func() bool {
		info, err := os.Stat(output)
		return err == nil && info.Size() == 256 && d.Status().Workflow.Counters.Succeeded == 1
	})

	addr := d.APIAddr()
	if addr == "" {
		t.Fatal("expected status api to be listening")
	}
	resp, err := http.Get("http://" + addr + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status: %v", err)
	}
	defer resp.Body.Close()
	var status daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Running || status.Workflow.Counters.Succeeded != 1 || status.Watcher.Queued != 1 {
		t.Fatalf("unexpected status payload %+v", status)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "ignored.txt")); !os.IsNotExist(err) {
		t.Fatalf("filtered file must not be encoded, stat err=%v", err)
	}
}
