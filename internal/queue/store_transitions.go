package queue

import (
	"context"
	"fmt"
	"time"
)

// ResetStuckProcessing returns every in-flight item to pending. Used at daemon
// startup, before any worker could own an item.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items
         SET status = ?, progress_message = 'Reset from stuck processing',
             last_heartbeat = NULL, updated_at = ?
         WHERE status = ?`,
		StatusPending,
		formatTime(time.Now()),
		StatusMigrating,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	return res.RowsAffected()
}

// UpdateHeartbeat updates the last heartbeat timestamp for an in-flight item.
func (s *Store) UpdateHeartbeat(ctx context.Context, id int64) error {
	now := formatTime(time.Now())
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE queue_items SET last_heartbeat = ?, updated_at = ? WHERE id = ?`,
		now,
		now,
		id,
	); err != nil {
		return fmt.Errorf("update heartbeat: %w", err)
	}
	return nil
}

// ReclaimStaleProcessing returns in-flight items to pending when their heartbeat
// is older than cutoff.
func (s *Store) ReclaimStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items
        SET status = ?, progress_message = 'Reclaimed from stale processing',
            last_heartbeat = NULL, updated_at = ?
        WHERE status = ? AND last_heartbeat IS NOT NULL AND last_heartbeat < ?`,
		StatusPending,
		formatTime(time.Now()),
		StatusMigrating,
		formatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale items: %w", err)
	}
	return res.RowsAffected()
}

// RetryFailed moves failed and review items back to pending for reprocessing.
// With no ids every such item is retried.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	const update = `UPDATE queue_items
        SET status = ?, progress_message = 'Retry requested', error_message = NULL,
            error_kind = NULL, error_detail = NULL, updated_at = ?
        WHERE status IN (?, ?)`
	args := []any{StatusPending, formatTime(time.Now()), StatusFailed, StatusReview}

	if len(ids) == 0 {
		res, err := s.execWithRetry(ctx, update, args...)
		if err != nil {
			return 0, fmt.Errorf("retry failed items: %w", err)
		}
		return res.RowsAffected()
	}

	for _, id := range ids {
		args = append(args, id)
	}
	query := update + ` AND id IN (` + makePlaceholders(len(ids)) + `)`
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry selected items: %w", err)
	}
	return res.RowsAffected()
}
