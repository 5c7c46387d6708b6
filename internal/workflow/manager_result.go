package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"encodeflow/internal/encoding"
	"encodeflow/internal/logging"
	"encodeflow/internal/queue"
	"encodeflow/internal/services"
)

// handleResult logs a finished attempt and applies the retry policy.
func (m *Manager) handleResult(ctx context.Context, logger *slog.Logger, job queue.Job, result encoding.Result) {
	logger.Info("encode finished",
		logging.Time("finished_at", result.End),
		logging.Int("exit_code", result.ExitCode),
		logging.String(logging.FieldEventType, "encode_finished"),
	)

	if result.Succeeded() {
		logger.Info("encode succeeded",
			logging.String("file", job.Name()),
			logging.Duration("elapsed", result.Elapsed()),
			logging.String(logging.FieldEventType, "encode_succeeded"),
		)
		m.record(job, result, outcomeSucceeded)
		return
	}

	logger.Error("encode failed",
		logging.String("file", job.Name()),
		logging.Int("exit_code", result.ExitCode),
		logging.String("stderr", result.Stderr),
		logging.Duration("elapsed", result.Elapsed()),
		logging.String(logging.FieldEventType, "encode_failed"),
	)

	m.applyRetryPolicy(ctx, logger, job, result, result.Err(), outcomeFailed)
}

// handleInvokeError handles an attempt that never produced a Result: the
// input vanished after it was queued or the encoder could not be started.
func (m *Manager) handleInvokeError(ctx context.Context, logger *slog.Logger, job queue.Job, err error) {
	now := time.Now()
	result := encoding.Result{ExitCode: -1, Start: now, End: now}
	details := services.Details(err)

	outcome, msg, event := outcomeLaunchFailed, "encoder launch failed", "encode_launch_failed"
	if errors.Is(err, services.ErrNotFound) {
		outcome, msg, event = outcomeInputMissing, "input file missing at dispatch", "encode_input_missing"
	}
	logging.ErrorWithContext(logger, msg, event,
		logging.String("file", job.Name()),
		logging.Error(err),
		logging.String(logging.FieldErrorKind, string(details.Kind)),
		logging.String(logging.FieldErrorHint, details.Hint),
	)
	m.applyRetryPolicy(ctx, logger, job, result, err, outcome)
}

// applyRetryPolicy re-queues job while err is retryable and the retry budget
// allows it; otherwise the job is dropped and recorded as terminal.
func (m *Manager) applyRetryPolicy(ctx context.Context, logger *slog.Logger, job queue.Job, result encoding.Result, err error, terminal string) {
	if services.Retryable(err) && job.Attempt < m.maxRetries {
		m.record(job, result, outcomeRetrying)
		m.scheduleRetry(ctx, logger, job.Retry())
		return
	}

	m.record(job, result, terminal)
	details := services.Details(err)
	logging.ErrorWithContext(logger, "job dropped", "encode_terminal_failure",
		logging.String("file", job.Name()),
		logging.Int("attempts", job.Attempt+1),
		logging.String("outcome", terminal),
		logging.Bool("retryable", services.Retryable(err)),
		logging.String(logging.FieldErrorKind, string(details.Kind)),
		logging.String(logging.FieldErrorHint, details.Hint),
	)
}

// scheduleRetry pushes next onto the retry lane, immediately or after the
// configured delay. A delayed push that is still waiting at shutdown is
// dropped.
func (m *Manager) scheduleRetry(ctx context.Context, logger *slog.Logger, next queue.Job) {
	if m.retryDelay <= 0 {
		depth := m.queues.Retry.Push(next)
		logger.Warn("retry scheduled",
			logging.Int("next_attempt", next.Attempt),
			logging.Int(logging.FieldQueueDepth, depth),
			logging.String(logging.FieldEventType, "retry_scheduled"),
		)
		return
	}

	logger.Warn("retry scheduled",
		logging.Int("next_attempt", next.Attempt),
		logging.Duration("retry_delay", m.retryDelay),
		logging.String(logging.FieldEventType, "retry_scheduled"),
	)
	m.mu.Lock()
	m.delayed++
	m.mu.Unlock()
	m.retryWG.Add(1)
	go func() {
		defer m.retryWG.Done()
		timer := time.NewTimer(m.retryDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			m.mu.Lock()
			m.delayed--
			m.counters.Dropped++
			m.mu.Unlock()
			logger.Warn("pending retry dropped at shutdown",
				logging.String("file", next.Name()),
				logging.String(logging.FieldEventType, "retry_dropped"),
			)
		case <-timer.C:
			m.mu.Lock()
			m.delayed--
			m.mu.Unlock()
			depth := m.queues.Retry.Push(next)
			logger.Info("retry queued",
				logging.Int("next_attempt", next.Attempt),
				logging.Int(logging.FieldQueueDepth, depth),
			)
		}
	}()
}
