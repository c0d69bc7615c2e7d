package workflow

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"contentstore/internal/logging"
	"contentstore/internal/queue"
	"contentstore/internal/services"
)

var labelCaser = cases.Title(language.English)

func (m *Manager) stageLogger(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, m.logger)
}

func withStageContext(ctx context.Context, stageName string, item *queue.Item, requestID string) context.Context {
	if item != nil {
		ctx = services.WithItemID(ctx, item.ID)
		ctx = services.WithContentItem(ctx, item.ContentID, item.Version)
	}
	if stageName != "" {
		ctx = services.WithStage(ctx, stageName)
	}
	if requestID != "" {
		ctx = services.WithRequestID(ctx, requestID)
	}
	return ctx
}

// deriveStageLabel turns a status such as "migrating" into "Migrating".
func deriveStageLabel(status queue.Status) string {
	if status == "" {
		return ""
	}
	return labelCaser.String(strings.ReplaceAll(string(status), "_", " "))
}
