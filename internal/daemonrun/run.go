package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/google/uuid"

	"contentstore/internal/blobstore"
	"contentstore/internal/config"
	"contentstore/internal/daemon"
	"contentstore/internal/logging"
	"contentstore/internal/migrate"
	"contentstore/internal/queue"
	"contentstore/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
}

// Run starts the contentstore daemon and blocks until ctx is cancelled or the
// process receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		FilePath:    filepath.Join(cfg.Paths.LogDir, logging.LogFileName),
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.NewString()
	logger = logger.With(logging.String("run_id", runID))
	logConfigSnapshot(logger, cfg)

	pidPath := filepath.Join(cfg.Paths.DataDir, "contentstore.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return err
	}

	blobs, err := blobstore.Open(cfg)
	if err != nil {
		store.Close()
		logger.Error("open asset store", logging.Error(err))
		return err
	}
	defer blobs.Close()

	migrator, err := migrate.NewMigrator(cfg, blobs, logger)
	if err != nil {
		store.Close()
		return fmt.Errorf("configure migrator: %w", err)
	}

	workflowManager := workflow.NewManager(cfg, store, logger)
	workflowManager.ConfigureStages(workflow.StageSet{
		Migrator: migrate.NewHandler(migrator, logger),
	})

	d, err := daemon.New(cfg, store, logger, workflowManager)
	if err != nil {
		store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check configuration, directory permissions and the lock file"),
		)
		return err
	}

	<-signalCtx.Done()
	logger.Info("contentstore daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logConfigSnapshot(logger *slog.Logger, cfg *config.Config) {
	logger.Info("configuration snapshot",
		logging.String(logging.FieldEventType, "config_snapshot"),
		logging.String("public_uri", cfg.Assets.PublicURI),
		logging.String("origin_pattern", cfg.Assets.OriginPattern),
		logging.Int("concurrency", cfg.Assets.Concurrency),
		logging.Duration("fetch_timeout", cfg.FetchTimeout()),
		logging.String("asset_dir", cfg.Paths.AssetDir),
		logging.String("queue_db", cfg.QueueDBPath()),
	)
}
