package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"contentstore/internal/config"
)

func TestLoadDefaultConfigUsesEnvPublicURIAndExpandsPaths(t *testing.T) {
	t.Setenv("CONTENTSTORE_PUBLIC_URI", "http://public-assets/path")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "contentstore")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.AssetDir != filepath.Join(wantData, "assets") {
		t.Fatalf("unexpected asset dir: %q", cfg.Paths.AssetDir)
	}
	if cfg.Assets.PublicURI != "http://public-assets/path" {
		t.Fatalf("expected public uri from env, got %q", cfg.Assets.PublicURI)
	}
	if cfg.Assets.OriginPattern != ".+" {
		t.Fatalf("unexpected origin pattern: %q", cfg.Assets.OriginPattern)
	}
	if cfg.Assets.Concurrency != 10 {
		t.Fatalf("unexpected concurrency: %d", cfg.Assets.Concurrency)
	}
	if len(cfg.Assets.IgnoreContentTypes) != 2 {
		t.Fatalf("unexpected ignore list: %v", cfg.Assets.IgnoreContentTypes)
	}
	if cfg.Workflow.HeartbeatTimeout != config.Default().Workflow.HeartbeatTimeout {
		t.Fatalf("unexpected heartbeat timeout: %d", cfg.Workflow.HeartbeatTimeout)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.AssetDir, cfg.Paths.LogDir, cfg.SpoolDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if filepath.Dir(cfg.QueueDBPath()) != cfg.Paths.DataDir || filepath.Dir(cfg.LockPath()) != cfg.Paths.DataDir {
		t.Fatalf("unexpected derived paths: %q %q", cfg.QueueDBPath(), cfg.LockPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "contentstore.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Assets struct {
			PublicURI          string   `toml:"public_uri"`
			OriginPattern      string   `toml:"origin_pattern"`
			Concurrency        int      `toml:"concurrency"`
			IgnoreContentTypes []string `toml:"ignore_content_types"`
		} `toml:"assets"`
		Workflow struct {
			HeartbeatInterval int `toml:"heartbeat_interval"`
			HeartbeatTimeout  int `toml:"heartbeat_timeout"`
		} `toml:"workflow"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Assets.PublicURI = "https://cdn.example.org/assets/"
	custom.Assets.OriginPattern = "^http://origin-assets/assets/"
	custom.Assets.Concurrency = 4
	custom.Assets.IgnoreContentTypes = []string{" Text/Plain ", "text/plain", ""}
	custom.Workflow.HeartbeatInterval = 20
	custom.Workflow.HeartbeatTimeout = 200
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.DataDir != filepath.Join(tempDir, "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Assets.OriginPattern != "^http://origin-assets/assets/" {
		t.Fatalf("unexpected origin pattern: %q", cfg.Assets.OriginPattern)
	}
	if cfg.Assets.Concurrency != 4 {
		t.Fatalf("unexpected concurrency: %d", cfg.Assets.Concurrency)
	}
	if got := strings.Join(cfg.Assets.IgnoreContentTypes, ","); got != "text/plain" {
		t.Fatalf("unexpected ignore list: %q", got)
	}
	if cfg.Workflow.HeartbeatInterval != 20 || cfg.Workflow.HeartbeatTimeout != 200 {
		t.Fatalf("unexpected heartbeat settings: %+v", cfg.Workflow)
	}
}

func TestLoadRequiresPublicURI(t *testing.T) {
	t.Setenv("CONTENTSTORE_PUBLIC_URI", "")
	configPath := filepath.Join(t.TempDir(), "missing.toml")

	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "assets.public_uri") {
		t.Fatalf("expected public uri error, got %v", err)
	}
}

func TestOriginPatternEnvFallback(t *testing.T) {
	t.Setenv("CONTENTSTORE_PUBLIC_URI", "http://public")
	t.Setenv("CONTENTSTORE_ORIGIN_PATTERN", "^https://legacy/")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Assets.OriginPattern != "^https://legacy/" {
		t.Fatalf("expected origin pattern from env, got %q", cfg.Assets.OriginPattern)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "contentstore") {
		t.Fatalf("expected data dir to contain contentstore, got %q", cfg.Paths.DataDir)
	}
	if cfg.Assets.PublicURI == "" {
		t.Fatal("sample should carry a public uri placeholder")
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("sample should load cleanly: exists=%v err=%v", exists, err)
	}
	if loaded.Assets.Concurrency != 10 {
		t.Fatalf("unexpected sample concurrency: %d", loaded.Assets.Concurrency)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	valid := func() config.Config {
		cfg := config.Default()
		cfg.Assets.PublicURI = "http://public-assets/path"
		return cfg
	}

	cfg := valid()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults with public uri to validate: %v", err)
	}

	cfg = valid()
	cfg.Assets.PublicURI = "relative/path"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative public uri")
	}

	cfg = valid()
	cfg.Assets.OriginPattern = "("
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid origin pattern")
	}

	cfg = valid()
	cfg.Assets.Concurrency = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative concurrency")
	}

	cfg = valid()
	cfg.Workflow.HeartbeatInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for heartbeat interval")
	}

	cfg = valid()
	cfg.Workflow.HeartbeatTimeout = cfg.Workflow.HeartbeatInterval
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when timeout <= interval")
	}

	cfg = valid()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}
