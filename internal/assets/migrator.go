package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"contentstore/internal/jats"
	"contentstore/internal/logging"
	"contentstore/internal/services"
)

// DefaultConcurrency bounds parallel asset pipelines per task.
const DefaultConcurrency = 10

// Options configures a Migrator.
type Options struct {
	OriginPattern       string
	PublicURI           string
	Concurrency         int
	IgnoredContentTypes []string
	Logger              *slog.Logger
}

// Task is one document whose assets should be migrated.
type Task struct {
	ItemID   string
	Version  int64
	Document *jats.Document
}

// MigratedAsset records one stored asset.
type MigratedAsset struct {
	Element   string
	Origin    string
	Path      string
	PublicURL string
	MediaType string
}

// Report summarises a migration run.
type Report struct {
	Discovered int
	Eligible   int
	Assets     []MigratedAsset
	Duration   time.Duration
}

// Migrated returns the number of stored assets.
func (r Report) Migrated() int {
	return len(r.Assets)
}

// Migrator rewrites a document's external assets into the store.
type Migrator struct {
	fetcher     Fetcher
	store       Store
	origin      *OriginFilter
	types       *ContentTypeResolver
	mutator     Mutator
	concurrency int
	logger      *slog.Logger
}

// NewMigrator validates opts and builds a Migrator.
func NewMigrator(fetcher Fetcher, store Store, opts Options) (*Migrator, error) {
	if fetcher == nil {
		return nil, errors.New("assets: fetcher is required")
	}
	if store == nil {
		return nil, errors.New("assets: store is required")
	}
	publicURI := strings.TrimSpace(opts.PublicURI)
	if publicURI == "" {
		return nil, services.Wrap(services.ErrConfiguration, "assets", "configure migrator", "public URI is required", nil)
	}
	origin, err := NewOriginFilter(opts.OriginPattern)
	if err != nil {
		return nil, err
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Migrator{
		fetcher:     fetcher,
		store:       store,
		origin:      origin,
		types:       NewContentTypeResolver(opts.IgnoredContentTypes),
		mutator:     Mutator{PublicURI: publicURI},
		concurrency: concurrency,
		logger:      logging.NewComponentLogger(opts.Logger, "assets"),
	}, nil
}

type candidate struct {
	element *jats.Element
	uri     *url.URL
}

// Migrate moves every eligible asset of task.Document and rewrites the
// references in place. It returns after all pipelines finish or the first
// one fails; stores completed before a failure are kept.
func (m *Migrator) Migrate(ctx context.Context, task *Task) (Report, error) {
	if task == nil || task.Document == nil {
		return Report{}, services.Wrap(services.ErrValidation, "assets", "migrate", "task has no document", nil)
	}
	started := time.Now()
	logger := logging.WithContext(ctx, m.logger).With(
		logging.String(logging.FieldContentID, task.ItemID),
		logging.Int64(logging.FieldContentVersion, task.Version),
	)

	elements := task.Document.LinkedElements()
	report := Report{Discovered: len(elements)}
	candidates := make([]candidate, 0, len(elements))
	for _, el := range elements {
		resolved, err := el.Resolve()
		if err != nil {
			logger.Debug("reference skipped", logging.Args(append(
				logging.DecisionAttrs("origin_filter", "skip", "unparseable reference"),
				logging.String("href", el.Href()),
				logging.Error(err),
			)...)...)
			continue
		}
		if !m.origin.Eligible(resolved) {
			logger.Debug("reference skipped", logging.Args(append(
				logging.DecisionAttrs("origin_filter", "skip", "origin mismatch"),
				logging.String("href", resolved.String()),
			)...)...)
			continue
		}
		candidates = append(candidates, candidate{element: el, uri: resolved})
	}
	report.Eligible = len(candidates)
	if len(candidates) == 0 {
		report.Duration = time.Since(started)
		return report, nil
	}

	results := make([]MigratedAsset, len(candidates))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(m.concurrency)
	for i, c := range candidates {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			asset, err := m.migrateOne(groupCtx, task, c)
			if err != nil {
				return err
			}
			results[i] = asset
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		report.Duration = time.Since(started)
		logger.Warn("asset migration failed",
			logging.String(logging.FieldEventType, "asset_migration_failed"),
			logging.String(logging.FieldErrorHint, services.Details(err).Hint),
			logging.Error(err),
		)
		return report, err
	}

	report.Assets = results
	report.Duration = time.Since(started)
	logger.Info("assets migrated",
		logging.String(logging.FieldEventType, "assets_migrated"),
		logging.Int("discovered", report.Discovered),
		logging.Int("eligible", report.Eligible),
		logging.Int("migrated", report.Migrated()),
		logging.Duration("duration", report.Duration),
	)
	return report, nil
}

func (m *Migrator) migrateOne(ctx context.Context, task *Task, c candidate) (MigratedAsset, error) {
	origin := c.uri.String()
	fetched, err := m.fetcher.Fetch(ctx, c.uri)
	if err != nil {
		return MigratedAsset{}, err
	}
	defer fetched.Close()

	mt, err := m.types.Resolve(fetched.ContentType, c.uri)
	if err != nil {
		return MigratedAsset{}, err
	}

	path, err := StoragePath(task.ItemID, task.Version, mt, fetched.Body())
	if err == nil {
		err = fetched.Rewind()
	}
	if err != nil {
		return MigratedAsset{}, &AssetLoadFailedError{Asset: origin, Reason: err.Error(), Err: err}
	}

	meta := Metadata{MimeType: mt.Essence(), Visibility: VisibilityPublic}
	ok, err := m.store.Put(ctx, path, fetched.Body(), meta)
	if err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("store refused %s", path)
		}
		return MigratedAsset{}, &AssetDeployFailedError{From: origin, To: path, Err: err}
	}

	public := m.mutator.Apply(c.element, path, mt)
	logging.WithContext(ctx, m.logger).Debug("asset stored",
		logging.String("asset_origin", origin),
		logging.String("asset_path", path),
		logging.String("media_type", meta.MimeType),
	)
	return MigratedAsset{
		Element:   c.element.LocalName(),
		Origin:    origin,
		Path:      path,
		PublicURL: public,
		MediaType: meta.MimeType,
	}, nil
}
