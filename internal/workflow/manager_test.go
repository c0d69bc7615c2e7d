package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"contentstore/internal/assets"
	"contentstore/internal/logging"
	"contentstore/internal/migrate"
	"contentstore/internal/queue"
	"contentstore/internal/services"
	"contentstore/internal/stage"
	"contentstore/internal/testsupport"
	"contentstore/internal/workflow"
)

type stubStage struct {
	name        string
	prepareErr  error
	executeErr  error
	executeHook func(*queue.Item)
	health      stage.Health
	executed    chan int64
}

func newStubStage(name string) *stubStage {
	return &stubStage{name: name, health: stage.Healthy(name), executed: make(chan int64, 16)}
}

func (s *stubStage) Prepare(context.Context, *queue.Item) error {
	return s.prepareErr
}

func (s *stubStage) Execute(_ context.Context, item *queue.Item) error {
	if s.executeHook != nil {
		s.executeHook(item)
	}
	s.executed <- item.ID
	return s.executeErr
}

func (s *stubStage) HealthCheck(context.Context) stage.Health {
	return s.health
}

func newManager(t *testing.T, handler stage.Handler) (*workflow.Manager, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mgr := workflow.NewManager(cfg, store, logging.NewNop())
	mgr.ConfigureStages(workflow.StageSet{Migrator: handler})
	return mgr, store
}

func TestProcessNextCompletesItem(t *testing.T) {
	stub := newStubStage("migrate")
	stub.executeHook = func(item *queue.Item) {
		if item.Status != queue.StatusMigrating {
			t.Errorf("expected migrating during execute, got %s", item.Status)
		}
		item.DocumentXML = "<article/>"
		item.AssetCount = 3
	}
	mgr, store := newManager(t, stub)
	created := testsupport.NewItem(t, store, "article1", 1, "<article>old</article>")

	item, err := mgr.ProcessNext(context.Background())
	if err != nil {
		t.Fatalf("ProcessNext: %v", err)
	}
	if item == nil || item.ID != created.ID {
		t.Fatalf("expected item %d to be processed, got %#v", created.ID, item)
	}

	stored, err := store.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != queue.StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
	if stored.DocumentXML != "<article/>" || stored.AssetCount != 3 {
		t.Fatalf("stage result not persisted: %#v", stored)
	}
	if stored.LastHeartbeat != nil {
		t.Fatal("heartbeat should be cleared after completion")
	}
	if stored.ProgressMessage == "" {
		t.Fatal("expected a progress message on completion")
	}
}

func TestProcessNextReturnsNilWhenQueueEmpty(t *testing.T) {
	mgr, _ := newManager(t, newStubStage("migrate"))
	item, err := mgr.ProcessNext(context.Background())
	if err != nil || item != nil {
		t.Fatalf("expected nil item and error, got %#v %v", item, err)
	}
}

func TestStageFailureStatusFollowsErrorKind(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status queue.Status
		kind   string
	}{
		{
			name:   "transient",
			err:    services.Wrap(services.ErrTransient, "migrate", "store", "disk full", nil),
			status: queue.StatusFailed,
			kind:   "transient",
		},
		{
			name:   "validation",
			err:    &assets.UnknownContentTypeError{URI: "https://origin.test/blob"},
			status: queue.StatusReview,
			kind:   "validation",
		},
		{
			name:   "external",
			err:    &assets.AssetLoadFailedError{Asset: "https://origin.test/a.png", Reason: "404 Not Found", Err: errors.New("unexpected status 404")},
			status: queue.StatusFailed,
			kind:   "external",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := newStubStage("migrate")
			stub.executeErr = tc.err
			mgr, store := newManager(t, stub)
			created := testsupport.NewItem(t, store, "article1", 1, "<article/>")

			if _, err := mgr.ProcessNext(context.Background()); !errors.Is(err, tc.err) {
				t.Fatalf("expected stage error, got %v", err)
			}
			stored, err := store.GetByID(context.Background(), created.ID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if stored.Status != tc.status {
				t.Fatalf("expected %s, got %s", tc.status, stored.Status)
			}
			if stored.ErrorKind != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, stored.ErrorKind)
			}
			if strings.TrimSpace(stored.ErrorMessage) == "" {
				t.Fatal("expected error message to be persisted")
			}
			if stored.LastHeartbeat != nil {
				t.Fatal("heartbeat should be cleared after failure")
			}
			summary := mgr.Status(context.Background())
			if summary.LastError == "" || summary.LastItem == nil || summary.LastItem.ID != created.ID {
				t.Fatalf("unexpected status summary: %#v", summary)
			}
		})
	}
}

func TestPrepareFailureSkipsExecute(t *testing.T) {
	stub := newStubStage("migrate")
	stub.prepareErr = services.Wrap(services.ErrValidation, "migrate", "prepare", "queued document is empty", nil)
	mgr, store := newManager(t, stub)
	created := testsupport.NewItem(t, store, "article1", 1, "<article/>")

	if _, err := mgr.ProcessNext(context.Background()); err == nil {
		t.Fatal("expected prepare error")
	}
	select {
	case <-stub.executed:
		t.Fatal("execute must not run after prepare failure")
	default:
	}
	stored, _ := store.GetByID(context.Background(), created.ID)
	if stored.Status != queue.StatusReview {
		t.Fatalf("expected review, got %s", stored.Status)
	}
}

func TestMigrateHandlerFailurePersistsDiagnostic(t *testing.T) {
	m, err := assets.NewMigrator(
		assets.NewHTTPFetcher(testsupport.NewOrigin(nil), "contentstore-test", t.TempDir()),
		testsupport.NewMemoryStore(),
		assets.Options{OriginPattern: ".+", PublicURI: testsupport.TestPublicURI},
	)
	if err != nil {
		t.Fatalf("NewMigrator: %v", err)
	}
	mgr, store := newManager(t, migrate.NewHandler(m, logging.NewNop()))
	created := testsupport.NewItem(t, store, "article1", 4, testsupport.GraphicArticle("https://origin.test/gone.png"))

	if _, err := mgr.ProcessNext(context.Background()); err == nil {
		t.Fatal("expected migration failure")
	}
	stored, _ := store.GetByID(context.Background(), created.ID)
	if stored.Status != queue.StatusFailed {
		t.Fatalf("expected failed, got %s", stored.Status)
	}
	if !strings.HasPrefix(stored.ErrorMessage, "Failed to load asset") {
		t.Fatalf("unexpected error message %q", stored.ErrorMessage)
	}
	if !strings.Contains(stored.ErrorDetail, "https://origin.test/gone.png") {
		t.Fatalf("unexpected error detail %q", stored.ErrorDetail)
	}
}

func TestManagerStartProcessesQueuedItems(t *testing.T) {
	stub := newStubStage("migrate")
	mgr, store := newManager(t, stub)
	mgr.SetPollInterval(10 * time.Millisecond)
	first := testsupport.NewItem(t, store, "article1", 1, "<article/>")
	second := testsupport.NewItem(t, store, "article2", 1, "<article/>")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := mgr.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := mgr.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail")
	}
	defer mgr.Stop()

	var seen []int64
	deadline := time.After(5 * time.Second)
	for len(seen) < 2 {
		select {
		case id := <-stub.executed:
			seen = append(seen, id)
		case <-deadline:
			t.Fatalf("timed out waiting for items, processed %v", seen)
		}
	}
	if seen[0] != first.ID || seen[1] != second.ID {
		t.Fatalf("expected FIFO order [%d %d], got %v", first.ID, second.ID, seen)
	}

	waitFor(t, func() bool {
		item, _ := store.GetByID(context.Background(), second.ID)
		return item != nil && item.Status == queue.StatusCompleted
	})
	if !mgr.Status(context.Background()).Running {
		t.Fatal("expected manager to report running")
	}
	mgr.Stop()
	if mgr.Status(context.Background()).Running {
		t.Fatal("expected manager to report stopped")
	}
}

func TestStartRequiresStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mgr := workflow.NewManager(cfg, store, nil)
	if err := mgr.Start(context.Background()); err == nil {
		t.Fatal("expected error without configured stages")
	}
}

func TestStatusReportsStageHealth(t *testing.T) {
	stub := newStubStage("migrate")
	stub.health = stage.Unhealthy("migrate", "store offline")
	mgr, store := newManager(t, stub)
	testsupport.NewItem(t, store, "article1", 1, "<article/>")

	summary := mgr.Status(context.Background())
	health, ok := summary.StageHealth["migrate"]
	if !ok || health.Ready || health.Detail != "store offline" {
		t.Fatalf("unexpected stage health: %#v", summary.StageHealth)
	}
	if summary.QueueStats[queue.StatusPending] != 1 {
		t.Fatalf("unexpected queue stats: %#v", summary.QueueStats)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
