package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"encodeflow/internal/logging"
	"encodeflow/internal/queue"
	"encodeflow/internal/services"
)

// Start launches the dispatch goroutine.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("workflow already running")
	}
	if m.runner == nil || m.queues == nil {
		return errors.New("workflow runner or queues not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true

	m.wg.Add(1)
	go m.run(runCtx)

	m.logger.Info("workflow started",
		logging.Duration("queue_poll", m.pollInterval),
		logging.Int("max_retries", m.maxRetries),
		logging.Duration("retry_delay", m.retryDelay),
	)
	return nil
}

// Stop cancels dispatch and waits for the loop to exit. An encode that is
// already running completes first; delayed retries still waiting are dropped.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.retryWG.Wait()
	m.logger.Info("workflow stopped")
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, lane, ok := m.queues.Next()
		if !ok {
			m.waitForJobOrShutdown(ctx)
			continue
		}
		m.dispatch(ctx, job, lane)
	}
}

func (m *Manager) waitForJobOrShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(m.pollInterval):
	}
}

// commandDescriber is implemented by runners that can report the command
// line they are about to run.
type commandDescriber interface {
	Binary() string
	Args(inputPath string) []string
}

// dispatch runs one attempt of job and handles its outcome. It never returns
// an error: every failure is logged and the loop moves on.
func (m *Manager) dispatch(ctx context.Context, job queue.Job, lane queue.Lane) {
	correlationID := uuid.NewString()
	attemptCtx := services.WithJobPath(ctx, job.Path)
	attemptCtx = services.WithAttempt(attemptCtx, job.Attempt)
	attemptCtx = services.WithLane(attemptCtx, string(lane))
	attemptCtx = services.WithRequestID(attemptCtx, correlationID)
	logger := logging.WithContext(attemptCtx, m.logger)

	started := time.Now()
	m.setActive(&ActiveJob{Job: job, Lane: lane, CorrelationID: correlationID, StartedAt: started})
	defer m.setActive(nil)

	attrs := []logging.Attr{
		logging.String("file", job.Name()),
		logging.Time("started_at", started),
		logging.Duration("queued_for", started.Sub(job.EnqueuedAt)),
		logging.String(logging.FieldEventType, "encode_started"),
	}
	if inv, ok := m.runner.(commandDescriber); ok {
		attrs = append(attrs,
			logging.String("binary", inv.Binary()),
			logging.String("args", strings.Join(inv.Args(job.Path), " ")),
		)
	}
	logger.Info("encode started", logging.Args(attrs...)...)

	result, err := m.runner.Invoke(attemptCtx, job.Path)
	if err != nil {
		m.handleInvokeError(attemptCtx, logger, job, err)
		return
	}
	m.handleResult(attemptCtx, logger, job, result)
}
