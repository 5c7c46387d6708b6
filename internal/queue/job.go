package queue

import (
	"path/filepath"
	"time"
)

// Lane identifies which queue a job was taken from.
type Lane string

const (
	LanePrimary Lane = "primary"
	LaneRetry   Lane = "retry"
)

// Job is a file awaiting encoding. Path is its identity; Attempt counts
// previous failed encodes and is zero for fresh arrivals.
type Job struct {
	Path       string    `json:"path"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewJob returns a fresh Job for path.
func NewJob(path string) Job {
	return Job{Path: path, EnqueuedAt: time.Now()}
}

// Retry returns the job's next attempt, stamped with a new enqueue time.
func (j Job) Retry() Job {
	return Job{Path: j.Path, Attempt: j.Attempt + 1, EnqueuedAt: time.Now()}
}

// Name returns the base name of the job's path.
func (j Job) Name() string {
	return filepath.Base(j.Path)
}
