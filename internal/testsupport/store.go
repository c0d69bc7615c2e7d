package testsupport

import (
	"context"
	"testing"

	"contentstore/internal/blobstore"
	"contentstore/internal/config"
	"contentstore/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenBlobStore opens the filesystem asset store for tests and registers cleanup.
func MustOpenBlobStore(t testing.TB, cfg *config.Config) *blobstore.Store {
	t.Helper()

	store, err := blobstore.Open(cfg)
	if err != nil {
		t.Fatalf("blobstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewItem enqueues a put task for tests using the provided store.
func NewItem(t testing.TB, store *queue.Store, contentID string, version int64, document string) *queue.Item {
	t.Helper()

	item, err := store.NewItem(context.Background(), contentID, version, []byte(document), "")
	if err != nil {
		t.Fatalf("store.NewItem: %v", err)
	}
	return item
}
