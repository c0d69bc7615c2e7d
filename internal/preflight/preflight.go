package preflight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contentstore/internal/config"
)

// ErrFailed marks the error returned by Failures.
var ErrFailed = errors.New("preflight checks failed")

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the local preflight checks for the given config. Network
// checks are left to callers that want them.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Asset directory", cfg.Paths.AssetDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Spool directory", cfg.SpoolDir()),
		CheckOriginPattern(cfg.Assets.OriginPattern),
	}
}

// Failures joins the details of every failed result, or returns nil.
func Failures(results []Result) error {
	var failures []string
	for _, r := range results {
		if !r.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrFailed, strings.Join(failures, "; "))
}
