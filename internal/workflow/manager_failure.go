package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contentstore/internal/logging"
	"contentstore/internal/queue"
	"contentstore/internal/services"
)

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, item *queue.Item, stageErr error) {
	logger := m.stageLogger(ctx)

	details := services.Details(stageErr)
	status := services.FailureStatus(stageErr)
	message := classifyStageFailure(stageName, details, stageErr)
	item.SetFailure(status, details.Kind, message, item.ErrorDetail)

	attrs := []logging.Attr{
		logging.String("resolved_status", string(item.Status)),
		logging.String("error_message", message),
		logging.String("error_kind", details.Kind),
		logging.String(logging.FieldErrorHint, details.Hint),
		logging.Alert("stage_failure"),
	}
	if item.ErrorDetail != "" {
		attrs = append(attrs, logging.String("error_detail", item.ErrorDetail))
	}
	if details.Cause != nil {
		attrs = append(attrs, logging.Error(details.Cause))
	} else {
		attrs = append(attrs, logging.Error(stageErr))
	}
	logging.ErrorWithContext(logger, "stage failed", "stage_failure", attrs...)

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not update stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	m.setLastItem(item)
	m.checkQueueCompletion(ctx)
}

func classifyStageFailure(stageName string, details services.ErrorDetails, stageErr error) string {
	message := strings.TrimSpace(details.Message)
	if message == "" && stageErr != nil {
		message = strings.TrimSpace(stageErr.Error())
	}
	if message != "" {
		return message
	}
	if stageName != "" {
		return fmt.Sprintf("%s failed without error detail", stageName)
	}
	return "workflow failed without error detail"
}
