package workflow

import (
	"context"
	"errors"
	"time"

	"contentstore/internal/logging"
	"contentstore/internal/queue"
)

// onItemStarted logs the start of a batch the first time an item begins
// processing after the queue was idle.
func (m *Manager) onItemStarted(ctx context.Context) {
	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.logStatsFailure(err)
		return
	}
	m.mu.Lock()
	if m.queueActive {
		m.mu.Unlock()
		return
	}
	m.queueActive = true
	m.queueStart = time.Now()
	m.mu.Unlock()

	m.logger.Info("queue processing started",
		logging.String(logging.FieldEventType, "queue_started"),
		logging.Int("count", countActiveItems(stats)),
	)
}

// checkQueueCompletion logs a summary once no pending or migrating items remain.
func (m *Manager) checkQueueCompletion(ctx context.Context) {
	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.logStatsFailure(err)
		return
	}
	if countActiveItems(stats) > 0 {
		return
	}

	m.mu.Lock()
	if !m.queueActive {
		m.mu.Unlock()
		return
	}
	start := m.queueStart
	m.queueActive = false
	m.queueStart = time.Time{}
	m.mu.Unlock()

	m.logger.Info("queue drained",
		logging.String(logging.FieldEventType, "queue_completed"),
		logging.Int("completed", stats[queue.StatusCompleted]),
		logging.Int("failed", stats[queue.StatusFailed]),
		logging.Int("review", stats[queue.StatusReview]),
		logging.Duration("duration", time.Since(start)),
	)
}

func (m *Manager) logStatsFailure(err error) {
	if errors.Is(err, context.Canceled) {
		m.logger.Debug("daemon shutting down, queue stats unavailable")
		return
	}
	m.logger.Warn("queue stats unavailable; queue event skipped",
		logging.Error(err),
		logging.String(logging.FieldEventType, "queue_stats_failed"),
		logging.String(logging.FieldErrorHint, "check queue database access"),
		logging.String(logging.FieldImpact, "queue start and completion events will not be logged"),
	)
}

func countActiveItems(stats map[queue.Status]int) int {
	return stats[queue.StatusPending] + stats[queue.StatusMigrating]
}
