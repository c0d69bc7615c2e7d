package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"contentstore/internal/logging"
	"contentstore/internal/queue"
)

// heartbeatFailureWarnAfter is the number of consecutive failed heartbeat
// writes before the item is reported as at risk of being reclaimed.
const heartbeatFailureWarnAfter = 3

// heartbeatMonitor keeps migrating items alive in the queue and returns items
// abandoned by a crashed daemon to pending.
type heartbeatMonitor struct {
	store    *queue.Store
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration

	mu          sync.Mutex
	lastReclaim time.Time
}

func newHeartbeatMonitor(store *queue.Store, logger *slog.Logger, interval, timeout time.Duration) *heartbeatMonitor {
	return &heartbeatMonitor{
		store:    store,
		logger:   logging.NewComponentLogger(logger, "workflow-heartbeat"),
		interval: interval,
		timeout:  timeout,
	}
}

// reclaim returns migrating items whose heartbeat is older than the timeout to
// pending. Calls closer together than the heartbeat interval are skipped.
func (h *heartbeatMonitor) reclaim(ctx context.Context, logger *slog.Logger) error {
	if h.timeout <= 0 {
		return nil
	}
	now := time.Now()
	h.mu.Lock()
	if h.interval > 0 && !h.lastReclaim.IsZero() && now.Sub(h.lastReclaim) < h.interval {
		h.mu.Unlock()
		return nil
	}
	h.lastReclaim = now
	h.mu.Unlock()

	reclaimed, err := h.store.ReclaimStaleProcessing(ctx, now.Add(-h.timeout))
	if err != nil {
		return err
	}
	if reclaimed > 0 {
		logger.Info("reclaimed stale items",
			logging.Int64("count", reclaimed),
			logging.Duration("timeout", h.timeout),
			logging.String(logging.FieldEventType, "heartbeat_reclaim"),
		)
	}
	return nil
}

// run refreshes the heartbeat of itemID every interval until ctx is done.
func (h *heartbeatMonitor) run(ctx context.Context, wg *sync.WaitGroup, itemID int64) {
	defer wg.Done()
	if h.interval <= 0 {
		return
	}
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	logger := logging.WithContext(ctx, h.logger)
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		err := h.store.UpdateHeartbeat(ctx, itemID)
		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, context.Canceled):
			return
		default:
			failures++
			if failures == heartbeatFailureWarnAfter {
				logger.Warn("heartbeat updates keep failing; item may be reclaimed",
					logging.Int("failures", failures),
					logging.Error(err),
					logging.String(logging.FieldEventType, "heartbeat_failing"),
					logging.String(logging.FieldErrorHint, "check queue database access"),
				)
			} else {
				logger.Debug("heartbeat update failed", logging.Error(err))
			}
		}
	}
}
