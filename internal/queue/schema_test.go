package queue

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"contentstore/internal/config"
)

func TestOpenRejectsNewerSchema(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.AssetDir = filepath.Join(base, "assets")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = ?", schemaVersion+1); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = store.Close()

	if _, err := Open(&cfg); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReadSchemaVersionOnEmptyDatabase(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	version, err := readSchemaVersion(context.Background(), db)
	if err != nil || version != 0 {
		t.Fatalf("expected version 0, got %d (%v)", version, err)
	}
}
