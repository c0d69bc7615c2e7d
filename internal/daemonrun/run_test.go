package daemonrun_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"contentstore/internal/daemon"
	"contentstore/internal/daemonrun"
	"contentstore/internal/logging"
	"contentstore/internal/testsupport"
)

func TestRunHoldsLockUntilCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(ctx, cfg, daemonrun.Options{LogLevel: "error"})
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		locked, err := daemon.Locked(cfg.LockPath())
		if err == nil && locked {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("daemon never acquired its lock")
		}
		time.Sleep(20 * time.Millisecond)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.DataDir, "contentstore.pid")); err != nil {
		t.Fatalf("expected pid file: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if locked, _ := daemon.Locked(cfg.LockPath()); locked {
		t.Fatal("lock should be released after shutdown")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, logging.LogFileName)); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}
