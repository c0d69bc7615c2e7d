package migrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"contentstore/internal/assets"
	"contentstore/internal/config"
	"contentstore/internal/jats"
	"contentstore/internal/logging"
	"contentstore/internal/queue"
	"contentstore/internal/services"
	"contentstore/internal/stage"
)

// StageName identifies the migrate stage in logs and health output.
const StageName = "migrate"

// Handler runs asset migration for queue items.
type Handler struct {
	migrator *assets.Migrator
	logger   *slog.Logger
}

var (
	_ stage.Handler     = (*Handler)(nil)
	_ stage.LoggerAware = (*Handler)(nil)
)

// NewHandler wraps a configured migrator.
func NewHandler(migrator *assets.Migrator, logger *slog.Logger) *Handler {
	return &Handler{migrator: migrator, logger: logging.NewComponentLogger(logger, "migrate")}
}

// NewMigrator builds the asset migrator described by cfg on top of store.
func NewMigrator(cfg *config.Config, store assets.Store, logger *slog.Logger) (*assets.Migrator, error) {
	client := &http.Client{Timeout: cfg.FetchTimeout()}
	fetcher := assets.NewHTTPFetcher(client, cfg.Assets.UserAgent, cfg.SpoolDir())
	return assets.NewMigrator(fetcher, store, assets.Options{
		OriginPattern:       cfg.Assets.OriginPattern,
		PublicURI:           cfg.Assets.PublicURI,
		Concurrency:         cfg.Assets.Concurrency,
		IgnoredContentTypes: cfg.Assets.IgnoreContentTypes,
		Logger:              logger,
	})
}

// SetLogger replaces the handler logger for the next run.
func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logging.NewComponentLogger(logger, "migrate")
	}
}

// Prepare validates the queued document before any asset is fetched.
func (h *Handler) Prepare(_ context.Context, item *queue.Item) error {
	if strings.TrimSpace(item.DocumentXML) == "" {
		return services.Wrap(services.ErrValidation, StageName, "prepare", "queued document is empty", nil)
	}
	item.InitProgress("Migrating assets")
	item.AssetCount = 0
	return nil
}

// Execute migrates the item's assets and stores the rewritten document on the item.
func (h *Handler) Execute(ctx context.Context, item *queue.Item) error {
	doc, err := jats.Parse([]byte(item.DocumentXML))
	if err != nil {
		return services.Wrap(services.ErrValidation, StageName, "parse document", "queued document is not well-formed XML", err)
	}
	if base := DocumentURL(item.SourcePath); base != "" {
		doc.SetURL(base)
	}

	ctx = services.WithContentItem(ctx, item.ContentID, item.Version)
	report, err := h.migrator.Migrate(ctx, &assets.Task{ItemID: item.ContentID, Version: item.Version, Document: doc})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		diag := assets.Describe(err)
		item.ErrorDetail = diag.Detail
		return &stageError{title: diag.Title, err: err}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return services.Wrap(services.ErrTransient, StageName, "serialize document", "could not serialize migrated document", err)
	}
	item.DocumentXML = buf.String()
	item.AssetCount = report.Migrated()
	item.ProgressMessage = fmt.Sprintf("Migrated %d of %d linked assets", report.Migrated(), report.Discovered)

	logging.WithContext(ctx, h.logger).Info("document migrated",
		logging.String(logging.FieldEventType, "document_migrated"),
		logging.Int("discovered", report.Discovered),
		logging.Int("eligible", report.Eligible),
		logging.Int("migrated", report.Migrated()),
		logging.Duration("stage_duration", report.Duration),
	)
	return nil
}

// HealthCheck reports whether the handler has a migrator to run.
func (h *Handler) HealthCheck(context.Context) stage.Health {
	if h == nil || h.migrator == nil {
		return stage.Unhealthy(StageName, "migrator not configured")
	}
	return stage.Healthy(StageName)
}

// DocumentURL returns source when it is an absolute http(s) URL, so relative
// references in the document resolve against where it was published.
func DocumentURL(source string) string {
	source = strings.TrimSpace(source)
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return source
	}
	return ""
}

// stageError titles a migration failure with its user-facing diagnostic while
// keeping the typed asset error reachable for classification.
type stageError struct {
	title string
	err   error
}

func (e *stageError) Error() string { return e.title + ": " + e.err.Error() }

func (e *stageError) Unwrap() error { return e.err }
