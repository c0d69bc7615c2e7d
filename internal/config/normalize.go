package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAssets()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AssetDir) == "" {
		c.Paths.AssetDir = defaultAssetDir
	}
	if c.Paths.AssetDir, err = expandPath(c.Paths.AssetDir); err != nil {
		return fmt.Errorf("paths.asset_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAssets() {
	c.Assets.PublicURI = strings.TrimSpace(c.Assets.PublicURI)
	if c.Assets.PublicURI == "" {
		if value, ok := os.LookupEnv("CONTENTSTORE_PUBLIC_URI"); ok {
			c.Assets.PublicURI = strings.TrimSpace(value)
		}
	}
	c.Assets.OriginPattern = strings.TrimSpace(c.Assets.OriginPattern)
	if value, ok := os.LookupEnv("CONTENTSTORE_ORIGIN_PATTERN"); ok && c.Assets.OriginPattern == defaultOriginPattern {
		c.Assets.OriginPattern = strings.TrimSpace(value)
	}
	if c.Assets.OriginPattern == "" {
		c.Assets.OriginPattern = defaultOriginPattern
	}
	if c.Assets.Concurrency == 0 {
		c.Assets.Concurrency = defaultConcurrency
	}
	if c.Assets.FetchTimeout == 0 {
		c.Assets.FetchTimeout = defaultFetchTimeout
	}
	c.Assets.UserAgent = strings.TrimSpace(c.Assets.UserAgent)
	if c.Assets.UserAgent == "" {
		c.Assets.UserAgent = defaultUserAgent
	}

	if c.Assets.IgnoreContentTypes != nil {
		types := make([]string, 0, len(c.Assets.IgnoreContentTypes))
		seen := make(map[string]struct{}, len(c.Assets.IgnoreContentTypes))
		for _, value := range c.Assets.IgnoreContentTypes {
			normalized := strings.ToLower(strings.TrimSpace(value))
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			types = append(types, normalized)
		}
		c.Assets.IgnoreContentTypes = types
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
