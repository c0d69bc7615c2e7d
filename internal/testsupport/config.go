package testsupport

import (
	"path/filepath"
	"testing"

	"contentstore/internal/config"
)

// TestPublicURI is the public base URI seeded into generated test configs.
const TestPublicURI = "https://assets.test/content"

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.AssetDir = filepath.Join(base, "assets")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Assets.PublicURI = TestPublicURI
	cfgVal.Assets.UserAgent = "contentstore-test"
	cfgVal.Workflow.QueuePollInterval = 1
	cfgVal.Workflow.ErrorRetryInterval = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOriginPattern overrides the origin filter on the test config.
func WithOriginPattern(pattern string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Assets.OriginPattern = pattern
	}
}

// WithConcurrency overrides the per-document pipeline limit.
func WithConcurrency(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Assets.Concurrency = n
	}
}

// WithPublicURI overrides the public base URI.
func WithPublicURI(uri string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Assets.PublicURI = uri
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
