// Package spool maintains the directory where fetched asset bodies are
// buffered before they are hashed and stored.
package spool

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contentstore/internal/logging"
)

// FilePattern matches the temp files the asset fetcher creates.
const FilePattern = "asset-*"

// CleanResult contains the outcome of a spool cleanup.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes spool files older than maxAge. Files younger than maxAge
// may belong to a fetch in progress and are kept.
func CleanStale(ctx context.Context, spoolDir string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	result := CleanResult{}

	spoolDir = strings.TrimSpace(spoolDir)
	if spoolDir == "" {
		return result
	}

	entries, err := os.ReadDir(spoolDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: spoolDir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)

	for _, entry := range entries {
		if ctx.Err() != nil {
			return result
		}
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(FilePattern, entry.Name()); !ok {
			continue
		}

		path := filepath.Join(spoolDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			if logger != nil {
				logger.Warn("failed to remove stale spool file",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "spool_cleanup_failed"),
					logging.String(logging.FieldErrorHint, "check data_dir permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed stale spool file",
				logging.String("path", path),
				logging.Duration("age", time.Since(info.ModTime())),
				logging.Int64("size_bytes", info.Size()),
				logging.String(logging.FieldEventType, "spool_cleanup"),
			)
		}
	}

	return result
}

// Usage reports how many spool files exist and their combined size.
func Usage(spoolDir string) (files int, size int64, err error) {
	spoolDir = strings.TrimSpace(spoolDir)
	if spoolDir == "" {
		return 0, 0, nil
	}
	entries, err := os.ReadDir(spoolDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files++
		size += info.Size()
	}
	return files, size, nil
}
