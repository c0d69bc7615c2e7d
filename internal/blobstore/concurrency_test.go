package blobstore_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"contentstore/internal/assets"
	"contentstore/internal/jats"
	"contentstore/internal/testsupport"
)

func TestConcurrentPutsAllSucceed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenBlobStore(t, cfg)
	ctx := context.Background()

	const writers = 200
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("article1/v1/object-%03d.png", i)
			ok, err := store.Put(ctx, path, strings.NewReader(path), assets.Metadata{MimeType: "image/png"})
			if err == nil && !ok {
				err = fmt.Errorf("put %s refused", path)
			}
			if err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	failed := 0
	var first error
	for err := range errs {
		if first == nil {
			first = err
		}
		failed++
	}
	if failed > 0 {
		t.Fatalf("%d of %d puts failed; first: %v", failed, writers, first)
	}

	objects, err := store.List(ctx, "article1/v1/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(objects) != writers {
		t.Fatalf("expected %d objects, got %d", writers, len(objects))
	}
}

func TestMigrateManyAssetsIntoStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenBlobStore(t, cfg)
	ctx := context.Background()

	const count = 30
	responses := make(map[string]testsupport.OriginResponse, count)
	hrefs := make([]string, 0, count)
	for i := range count {
		href := fmt.Sprintf("http://origin.test/%d.png", i)
		hrefs = append(hrefs, href)
		responses[href] = testsupport.OriginResponse{ContentType: "image/png", Body: fmt.Sprintf("image %d", i)}
	}
	origin := testsupport.NewOrigin(responses)

	migrator, err := assets.NewMigrator(
		assets.NewHTTPFetcher(origin, "contentstore-test", t.TempDir()),
		store,
		assets.Options{OriginPattern: "^http://origin.test/", PublicURI: testsupport.TestPublicURI},
	)
	if err != nil {
		t.Fatalf("NewMigrator: %v", err)
	}

	for version := int64(1); version <= 5; version++ {
		doc, err := jats.Parse([]byte(testsupport.GraphicArticle(hrefs...)))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		report, err := migrator.Migrate(ctx, &assets.Task{ItemID: "article1", Version: version, Document: doc})
		if err != nil {
			t.Fatalf("Migrate v%d: %v", version, err)
		}
		if report.Migrated() != count {
			t.Fatalf("v%d: expected %d migrated, got %d", version, count, report.Migrated())
		}
		objects, err := store.List(ctx, fmt.Sprintf("article1/v%d/", version))
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(objects) != count {
			t.Fatalf("v%d: expected %d stored objects, got %d", version, count, len(objects))
		}
		for _, el := range doc.LinkedElements() {
			if !strings.HasPrefix(el.Href(), testsupport.TestPublicURI+"/article1/") {
				t.Fatalf("reference not rewritten: %s", el.Href())
			}
		}
	}
}
