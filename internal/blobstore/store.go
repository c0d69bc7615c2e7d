package blobstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"contentstore/internal/assets"
	"contentstore/internal/config"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// ErrSchemaMismatch indicates the metadata database was created by a different schema version.
var ErrSchemaMismatch = errors.New("asset schema version mismatch")

// Object describes a stored asset.
type Object struct {
	Path       string
	MimeType   string
	Visibility string
	Size       int64
	Checksum   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Store keeps asset bytes under root and their metadata in SQLite.
type Store struct {
	root      string
	publicURI string
	db        *sql.DB
	dbPath    string
}

var _ assets.Store = (*Store)(nil)

// Open initializes the asset store described by cfg.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return New(cfg.Paths.AssetDir, cfg.AssetDBPath(), cfg.Assets.PublicURI)
}

// New opens a store rooted at root with metadata in dbPath.
func New(root, dbPath, publicURI string) (*Store, error) {
	if root == "" {
		return nil, errors.New("asset root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create asset root: %w", err)
	}

	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{root: root, publicURI: publicURI, db: db, dbPath: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// sqliteDSN carries the pragmas in the connection string so every pooled
// connection gets them; a PRAGMA run through db.Exec reaches only one.
func sqliteDSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Root returns the directory holding asset bytes.
func (s *Store) Root() string {
	return s.root
}

// Close closes the metadata database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PublicURL returns the URL under which path is served.
func (s *Store) PublicURL(path string) string {
	return assets.PublicURL(s.publicURI, path)
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists); err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}
