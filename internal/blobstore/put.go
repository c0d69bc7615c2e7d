package blobstore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"contentstore/internal/assets"
)

// ErrInvalidPath reports an object path that is empty, absolute, or escapes the root.
var ErrInvalidPath = errors.New("invalid object path")

// Put writes r to path and records its metadata. Existing objects are replaced.
func (s *Store) Put(ctx context.Context, objectPath string, r io.Reader, meta assets.Metadata) (bool, error) {
	clean, err := cleanPath(objectPath)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	target := filepath.Join(s.root, filepath.FromSlash(clean))
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return false, fmt.Errorf("create temp object: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	hash := md5.New()
	size, err := io.Copy(io.MultiWriter(tmp, hash), &contextReader{ctx: ctx, r: r})
	if err != nil {
		return false, fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return false, fmt.Errorf("sync object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close object: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return false, fmt.Errorf("chmod object: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return false, fmt.Errorf("commit object: %w", err)
	}
	committed = true

	mimeType := strings.TrimSpace(meta.MimeType)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	visibility := strings.TrimSpace(meta.Visibility)
	if visibility == "" {
		visibility = assets.VisibilityPublic
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO objects (path, mime_type, visibility, size, checksum, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(path) DO UPDATE SET
                 mime_type = excluded.mime_type,
                 visibility = excluded.visibility,
                 size = excluded.size,
                 checksum = excluded.checksum,
                 updated_at = excluded.updated_at`,
			clean,
			mimeType,
			visibility,
			size,
			hex.EncodeToString(hash.Sum(nil)),
			now,
			now,
		)
		return err
	}); err != nil {
		return false, fmt.Errorf("record object metadata: %w", err)
	}
	return true, nil
}

// cleanPath validates an object path and returns its canonical slash form.
func cleanPath(objectPath string) (string, error) {
	trimmed := strings.TrimSpace(objectPath)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if strings.Contains(trimmed, `\`) || strings.HasPrefix(trimmed, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q escapes the store root", ErrInvalidPath, objectPath)
		}
	}
	clean := path.Clean(trimmed)
	if clean == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
	}
	return clean, nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
