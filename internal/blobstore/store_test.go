package blobstore_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contentstore/internal/assets"
	"contentstore/internal/blobstore"
	"contentstore/internal/testsupport"
)

func TestPutWritesObjectAndMetadata(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenBlobStore(t, cfg)
	ctx := context.Background()

	path := "article1/v1/879f77a11b0649cb8af511fa5d6e4a7e.jpeg"
	ok, err := store.Put(ctx, path, strings.NewReader("figure1"), assets.Metadata{MimeType: "image/jpeg", Visibility: assets.VisibilityPublic})
	if err != nil || !ok {
		t.Fatalf("Put returned ok=%v err=%v", ok, err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.AssetDir, "article1", "v1", "879f77a11b0649cb8af511fa5d6e4a7e.jpeg"))
	if err != nil {
		t.Fatalf("read stored object: %v", err)
	}
	if string(data) != "figure1" {
		t.Fatalf("unexpected object content %q", data)
	}

	obj, err := store.Stat(ctx, path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if obj == nil {
		t.Fatal("expected object metadata")
	}
	if obj.MimeType != "image/jpeg" || obj.Visibility != "public" || obj.Size != 7 {
		t.Fatalf("unexpected metadata: %#v", obj)
	}
	if obj.Checksum != "879f77a11b0649cb8af511fa5d6e4a7e" {
		t.Fatalf("unexpected checksum %q", obj.Checksum)
	}
	if obj.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	rc, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "figure1" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestPutReplacesExistingObject(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenBlobStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Put(ctx, "a/v1/x.pdf", strings.NewReader("one"), assets.Metadata{MimeType: "application/pdf"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := store.Put(ctx, "a/v1/x.pdf", strings.NewReader("three"), assets.Metadata{MimeType: "application/pdf"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	obj, err := store.Stat(ctx, "a/v1/x.pdf")
	if err != nil || obj == nil {
		t.Fatalf("Stat returned %#v err=%v", obj, err)
	}
	if obj.Size != 5 || obj.Visibility != assets.VisibilityPublic {
		t.Fatalf("expected replaced metadata with default visibility, got %#v", obj)
	}

	entries, err := os.ReadDir(filepath.Join(cfg.Paths.AssetDir, "a", "v1"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestPutRejectsInvalidPaths(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenBlobStore(t, cfg)

	for _, path := range []string{"", "/abs/path", "../escape", "a/../../b", `a\b`, "."} {
		ok, err := store.Put(context.Background(), path, strings.NewReader("x"), assets.Metadata{})
		if ok || !errors.Is(err, blobstore.ErrInvalidPath) {
			t.Fatalf("path %q: expected ErrInvalidPath, got ok=%v err=%v", path, ok, err)
		}
	}
}

func TestPutHonoursCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenBlobStore(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := store.Put(ctx, "a/v1/x.png", strings.NewReader("x"), assets.Metadata{})
	if ok || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got ok=%v err=%v", ok, err)
	}
	if obj, _ := store.Stat(context.Background(), "a/v1/x.png"); obj != nil {
		t.Fatalf("expected no metadata after cancelled put, got %#v", obj)
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenBlobStore(t, cfg)
	ctx := context.Background()

	for _, path := range []string{"b/v1/2.png", "a/v2/1.png", "a/v1/1.png"} {
		if _, err := store.Put(ctx, path, strings.NewReader(path), assets.Metadata{MimeType: "image/png"}); err != nil {
			t.Fatalf("Put %s failed: %v", path, err)
		}
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 || all[0].Path != "a/v1/1.png" || all[2].Path != "b/v1/2.png" {
		t.Fatalf("unexpected listing: %#v", all)
	}

	filtered, err := store.List(ctx, "/a/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 objects under a/, got %#v", filtered)
	}
}

func TestOpenMissingObject(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenBlobStore(t, cfg)

	if _, err := store.Open("missing/v1/x.png"); !errors.Is(err, blobstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	obj, err := store.Stat(context.Background(), "missing/v1/x.png")
	if err != nil || obj != nil {
		t.Fatalf("expected nil stat, got %#v err=%v", obj, err)
	}
}

func TestPublicURL(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPublicURI("https://cdn.test/assets/"))
	store := testsupport.MustOpenBlobStore(t, cfg)

	if got := store.PublicURL("/a/v1/x.png"); got != "https://cdn.test/assets/a/v1/x.png" {
		t.Fatalf("unexpected public URL %q", got)
	}
}

func TestReopenKeepsMetadata(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := blobstore.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Put(context.Background(), "a/v1/x.png", strings.NewReader("x"), assets.Metadata{MimeType: "image/png"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenBlobStore(t, cfg)
	obj, err := reopened.Stat(context.Background(), "a/v1/x.png")
	if err != nil || obj == nil {
		t.Fatalf("expected metadata after reopen, got %#v err=%v", obj, err)
	}
}
