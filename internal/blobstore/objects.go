package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNotFound is returned when no object exists at the requested path.
var ErrNotFound = errors.New("object not found")

const objectColumns = "path, mime_type, visibility, size, checksum, created_at, updated_at"

// Stat returns metadata for the object at path, or nil when absent.
func (s *Store) Stat(ctx context.Context, objectPath string) (*Object, error) {
	clean, err := cleanPath(objectPath)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+objectColumns+` FROM objects WHERE path = ?`, clean)
	obj, err := scanObject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat object: %w", err)
	}
	return obj, nil
}

// List returns objects whose path starts with prefix, ordered by path.
func (s *Store) List(ctx context.Context, prefix string) ([]Object, error) {
	prefix = strings.TrimLeft(strings.TrimSpace(prefix), "/")
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+objectColumns+` FROM objects WHERE substr(path, 1, ?) = ? ORDER BY path`,
		utf8.RuneCountInString(prefix),
		prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	defer rows.Close()

	var objects []Object
	for rows.Next() {
		obj, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		objects = append(objects, *obj)
	}
	return objects, rows.Err()
}

// Open returns a reader for the object at path. Callers close it.
func (s *Store) Open(objectPath string) (io.ReadCloser, error) {
	clean, err := cleanPath(objectPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(clean)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
	}
	if err != nil {
		return nil, fmt.Errorf("open object: %w", err)
	}
	return f, nil
}

func scanObject(scanner interface{ Scan(dest ...any) error }) (*Object, error) {
	var (
		obj        Object
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&obj.Path,
		&obj.MimeType,
		&obj.Visibility,
		&obj.Size,
		&obj.Checksum,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		obj.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		obj.UpdatedAt = updated
	}
	return &obj, nil
}
