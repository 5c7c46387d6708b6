package workflow

import (
	"time"

	"encodeflow/internal/encoding"
	"encodeflow/internal/queue"
)

// ActiveJob describes the attempt currently being encoded.
type ActiveJob struct {
	Job           queue.Job  `json:"job"`
	Lane          queue.Lane `json:"lane"`
	CorrelationID string     `json:"correlation_id"`
	StartedAt     time.Time  `json:"started_at"`
}

// Outcome summarises the most recently finished attempt.
type Outcome struct {
	Path       string        `json:"path"`
	Attempt    int           `json:"attempt"`
	Status     string        `json:"status"`
	ExitCode   int           `json:"exit_code"`
	Elapsed    time.Duration `json:"elapsed"`
	FinishedAt time.Time     `json:"finished_at"`
}

const (
	outcomeSucceeded    = "succeeded"
	outcomeRetrying     = "retrying"
	outcomeFailed       = "failed"
	outcomeLaunchFailed = "launch_failed"
	outcomeInputMissing = "input_missing"
)

// Counters tallies attempts since start. Nothing is persisted.
type Counters struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Retried   int `json:"retried"`
	Dropped   int `json:"dropped"`
}

// StatusSummary is a point-in-time view of the dispatch loop.
type StatusSummary struct {
	Running        bool       `json:"running"`
	PrimaryDepth   int        `json:"primary_depth"`
	RetryDepth     int        `json:"retry_depth"`
	PendingRetries int        `json:"pending_retries"`
	Active         *ActiveJob `json:"active,omitempty"`
	Last           *Outcome   `json:"last,omitempty"`
	Counters       Counters   `json:"counters"`
}

// Status returns the latest workflow information.
func (m *Manager) Status() StatusSummary {
	primary, retry := m.queues.Depths()

	m.mu.RLock()
	defer m.mu.RUnlock()
	summary := StatusSummary{
		Running:        m.running,
		PrimaryDepth:   primary,
		RetryDepth:     retry,
		PendingRetries: m.delayed,
		Counters:       m.counters,
	}
	if m.active != nil {
		copy := *m.active
		summary.Active = &copy
	}
	if m.last != nil {
		copy := *m.last
		summary.Last = &copy
	}
	return summary
}

func (m *Manager) setActive(active *ActiveJob) {
	m.mu.Lock()
	m.active = active
	m.mu.Unlock()
}

func (m *Manager) record(job queue.Job, result encoding.Result, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters.Processed++
	switch status {
	case outcomeSucceeded:
		m.counters.Succeeded++
	case outcomeRetrying:
		m.counters.Failed++
		m.counters.Retried++
	case outcomeFailed, outcomeLaunchFailed, outcomeInputMissing:
		m.counters.Failed++
		m.counters.Dropped++
	}
	m.last = &Outcome{
		Path:       job.Path,
		Attempt:    job.Attempt,
		Status:     status,
		ExitCode:   result.ExitCode,
		Elapsed:    result.Elapsed(),
		FinishedAt: result.End,
	}
}
