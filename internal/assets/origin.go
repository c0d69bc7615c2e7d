package assets

import (
	"fmt"
	"net/url"
	"regexp"

	"contentstore/internal/services"
	"contentstore/internal/uri"
)

// DefaultOriginPattern accepts every absolute URI.
const DefaultOriginPattern = ".+"

// OriginFilter decides which resolved references are migrated.
type OriginFilter struct {
	pattern *regexp.Regexp
}

// NewOriginFilter compiles pattern. The match is an unanchored search over
// the URI's string form; add ^ to pin a prefix.
func NewOriginFilter(pattern string) (*OriginFilter, error) {
	if pattern == "" {
		pattern = DefaultOriginPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "assets", "compile origin pattern", fmt.Sprintf("invalid pattern %q", pattern), err)
	}
	return &OriginFilter{pattern: re}, nil
}

// Eligible reports whether u is absolute and matches the pattern.
func (f *OriginFilter) Eligible(u *url.URL) bool {
	if !uri.IsAbsolute(u) {
		return false
	}
	return f.pattern.MatchString(u.String())
}

// Pattern returns the compiled expression source.
func (f *OriginFilter) Pattern() string {
	return f.pattern.String()
}
