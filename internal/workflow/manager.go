package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"encodeflow/internal/config"
	"encodeflow/internal/encoding"
	"encodeflow/internal/logging"
	"encodeflow/internal/queue"
)

// Manager dispatches queued jobs to the encoder.
type Manager struct {
	queues       *queue.Set
	runner       encoding.Runner
	logger       *slog.Logger
	pollInterval time.Duration
	maxRetries   int
	retryDelay   time.Duration

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	retryWG  sync.WaitGroup
	active   *ActiveJob
	last     *Outcome
	counters Counters
	delayed  int
}

// NewManager constructs a Manager that consumes queues and invokes runner.
func NewManager(cfg *config.Config, queues *queue.Set, runner encoding.Runner, logger *slog.Logger) *Manager {
	return &Manager{
		queues:       queues,
		runner:       runner,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		pollInterval: cfg.QueuePollInterval(),
		maxRetries:   cfg.Workflow.MaxRetries,
		retryDelay:   cfg.RetryDelay(),
	}
}
