package queue_test

import (
	"fmt"
	"sync"
	"testing"

	"encodeflow/internal/queue"
)

func TestFIFOPreservesOrder(t *testing.T) {
	q := queue.NewFIFO()
	for i, name := range []string{"a.mov", "b.mov", "c.mov"} {
		if depth := q.Push(queue.NewJob(name)); depth != i+1 {
			t.Fatalf("push %s: expected depth %d, got %d", name, i+1, depth)
		}
	}
	snapshot := q.Snapshot()
	if len(snapshot) != 3 || snapshot[0].Path != "a.mov" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
	for _, want := range []string{"a.mov", "b.mov", "c.mov"} {
		job, ok := q.Pop()
		if !ok || job.Path != want {
			t.Fatalf("expected %s, got %+v ok=%v", want, job, ok)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("expected empty queue")
	}
	if q.Len() != 0 {
		t.Fatalf("expected zero depth, got %d", q.Len())
	}
}

func TestFIFOConcurrentPushKeepsEveryJob(t *testing.T) {
	q := queue.NewFIFO()
	const producers, perProducer = 8, 50

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				q.Push(queue.NewJob(fmt.Sprintf("p%d-%d", p, i)))
			}
		}()
	}
	wg.Wait()

	if q.Len() != producers*perProducer {
		t.Fatalf("expected %d jobs, got %d", producers*perProducer, q.Len())
	}
	seen := make(map[string]bool)
	for {
		job, ok := q.Pop()
		if !ok {
			break
		}
		if seen[job.Path] {
			t.Fatalf("job %s popped twice", job.Path)
		}
		seen[job.Path] = true
	}
	if len(seen) != producers*perProducer {
		t.Fatalf("expected %d distinct jobs, got %d", producers*perProducer, len(seen))
	}
}

func TestSetDrainsPrimaryBeforeRetry(t *testing.T) {
	set := queue.NewSet()
	set.Primary.Push(queue.NewJob("A"))
	set.Retry.Push(queue.NewJob("C").Retry())
	set.Primary.Push(queue.NewJob("B"))

	want := []struct {
		path string
		lane queue.Lane
	}{
		{"A", queue.LanePrimary},
		{"B", queue.LanePrimary},
		{"C", queue.LaneRetry},
	}
	for _, w := range want {
		job, lane, ok := set.Next()
		if !ok || job.Path != w.path || lane != w.lane {
			t.Fatalf("expected %s from %s, got %+v from %s ok=%v", w.path, w.lane, job, lane, ok)
		}
	}
	if _, _, ok := set.Next(); ok {
		t.Fatal("expected both lanes empty")
	}
}

func TestJobRetryIncrementsAttempt(t *testing.T) {
	job := queue.NewJob("/in/a.mov")
	next := job.Retry()
	if next.Attempt != 1 || next.Path != job.Path {
		t.Fatalf("unexpected retry job %+v", next)
	}
	if next.EnqueuedAt.Before(job.EnqueuedAt) {
		t.Fatal("retry must not predate the original enqueue")
	}
	if job.Name() != "a.mov" {
		t.Fatalf("unexpected name %q", job.Name())
	}
}
