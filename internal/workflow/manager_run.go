package workflow

import (
	"context"
	"errors"
	"time"

	"contentstore/internal/logging"
	"contentstore/internal/queue"
	"contentstore/internal/stage"
)

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	p := m.pipeline
	if p == nil || len(p.statusOrder) == 0 {
		m.mu.Unlock()
		return errors.New("workflow stages not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	m.logStageHealth(ctx, p)
	go m.run(runCtx, p)
	return nil
}

func (m *Manager) logStageHealth(ctx context.Context, p *pipeline) {
	health := make(map[string]stage.Health, len(p.stages))
	for _, stg := range p.stages {
		if stg.handler != nil {
			health[stg.name] = stg.handler.HealthCheck(ctx)
		}
	}
	for _, h := range stage.NotReady(health) {
		m.logger.Warn("stage not ready; items will fail until it recovers",
			logging.String(logging.FieldStage, h.Name),
			logging.String(logging.FieldEventType, "stage_unhealthy"),
			logging.String("detail", h.Detail),
		)
	}
}

// Stop terminates background processing and waits for completion.
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
}

func (m *Manager) run(ctx context.Context, p *pipeline) {
	defer m.wg.Done()
	logger := m.logger

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if len(p.processingStatuses) > 0 {
			if err := m.heartbeat.reclaim(ctx, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("reclaim stale processing failed; stuck items may remain",
					logging.Error(err),
					logging.String(logging.FieldEventType, "heartbeat_reclaim_failed"),
					logging.String(logging.FieldErrorHint, "check queue database access"),
				)
			}
		}

		item, err := m.store.NextForStatuses(ctx, p.statusOrder...)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			m.handleNextItemError(ctx, err)
			continue
		}
		if item == nil {
			m.waitForItemOrShutdown(ctx)
			continue
		}

		if err := m.processItem(ctx, p, item); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

func (m *Manager) handleNextItemError(ctx context.Context, err error) {
	m.setLastError(err)
	m.logger.Error("failed to fetch next queue item",
		logging.Error(err),
		logging.String(logging.FieldEventType, "queue_fetch_failed"),
		logging.String(logging.FieldErrorHint, "check queue database access"),
	)
	select {
	case <-ctx.Done():
	case <-time.After(m.retryDelay):
	}
}

func (m *Manager) waitForItemOrShutdown(ctx context.Context) {
	m.mu.RLock()
	wait := m.pollInterval
	m.mu.RUnlock()
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}

// ProcessNext runs the stage for the oldest pending item once, outside the
// polling loop. It returns a nil item when nothing is pending.
func (m *Manager) ProcessNext(ctx context.Context) (*queue.Item, error) {
	m.mu.RLock()
	p := m.pipeline
	m.mu.RUnlock()
	if p == nil || len(p.statusOrder) == 0 {
		return nil, errors.New("workflow stages not configured")
	}
	item, err := m.store.NextForStatuses(ctx, p.statusOrder...)
	if err != nil || item == nil {
		return nil, err
	}
	err = m.processItem(ctx, p, item)
	return item, err
}
