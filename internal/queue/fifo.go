package queue

import "sync"

// FIFO is an unbounded first-in first-out queue that is safe for concurrent
// producers and consumers.
type FIFO struct {
	mu   sync.Mutex
	jobs []Job
}

// NewFIFO returns an empty queue.
func NewFIFO() *FIFO {
	return &FIFO{}
}

// Push appends job and returns the resulting depth.
func (q *FIFO) Push(job Job) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return len(q.jobs)
}

// Pop removes and returns the oldest job.
func (q *FIFO) Pop() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return Job{}, false
	}
	job := q.jobs[0]
	q.jobs[0] = Job{}
	q.jobs = q.jobs[1:]
	if len(q.jobs) == 0 {
		q.jobs = nil
	}
	return job, true
}

// Len reports the current depth.
func (q *FIFO) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Snapshot copies the queued jobs in dispatch order.
func (q *FIFO) Snapshot() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Job, len(q.jobs))
	copy(out, q.jobs)
	return out
}
