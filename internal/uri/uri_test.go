package uri

import (
	"net/url"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		ref  string
		base string
		want string
	}{
		{ref: "http://origin-assets/figure1.jpg", want: "http://origin-assets/figure1.jpg"},
		{ref: "figure1.jpg", base: "http://origin-assets/", want: "http://origin-assets/figure1.jpg"},
		{ref: "/assets/figure.jpg", base: "http://origin-assets/path/", want: "http://origin-assets/assets/figure.jpg"},
		{ref: "../figure.jpg", base: "http://origin-assets/a/b/", want: "http://origin-assets/a/figure.jpg"},
		{ref: "http://origin-assets/path/../assets/figure.jpg", want: "http://origin-assets/assets/figure.jpg"},
		{ref: "assets/figure.jpg", want: "assets/figure.jpg"},
		{ref: "/assets/figure.jpg", want: "/assets/figure.jpg"},
		{ref: "HTTP://Origin-Assets:80/a/./b", want: "http://origin-assets/a/b"},
		{ref: "https://example.com:443", want: "https://example.com/"},
		{ref: "https://example.com:8443/x", want: "https://example.com:8443/x"},
		{ref: "http://example.com/%7euser/%2f", want: "http://example.com/~user/%2F"},
		{ref: "http://bücher.example/cover.png", want: "http://xn--bcher-kva.example/cover.png"},
		{ref: "http://[::1]:8080/x", want: "http://[::1]:8080/x"},
	}

	for _, tt := range tests {
		got, err := Resolve(tt.ref, tt.base)
		if err != nil {
			t.Fatalf("Resolve(%q, %q) error: %v", tt.ref, tt.base, err)
		}
		if got.String() != tt.want {
			t.Fatalf("Resolve(%q, %q) = %q, want %q", tt.ref, tt.base, got.String(), tt.want)
		}
	}
}

func TestResolveRejectsMalformedReference(t *testing.T) {
	if _, err := Resolve("http://[::1", ""); err == nil {
		t.Fatal("expected error for malformed reference")
	}
	if _, err := Resolve("figure.jpg", "http://[::1"); err == nil {
		t.Fatal("expected error for malformed base")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"HTTP://EXAMPLE.com/a/../b/./c/",
		"http://example.com/%7e/%41%2f",
		"http://example.com:80",
		"relative/../path",
		"/a/b/..",
		"http://example.com/a?q=%7e#frag%7e",
		"mailto:someone@example.com",
	}
	for _, raw := range inputs {
		parsed, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		once := Normalize(parsed).String()
		reparsed, err := url.Parse(once)
		if err != nil {
			t.Fatalf("parse normalized %q: %v", once, err)
		}
		twice := Normalize(reparsed).String()
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestNormalizeLeavesInputUntouched(t *testing.T) {
	parsed, err := url.Parse("http://Example.com:80/a/../b")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	orig := *parsed

	normalized := Normalize(parsed)
	if got := normalized.String(); got != "http://example.com/b" {
		t.Fatalf("unexpected normalized form %q", got)
	}
	if *parsed != orig {
		t.Fatalf("input mutated: got %#v, want %#v", *parsed, orig)
	}
}

func TestIsAbsolute(t *testing.T) {
	abs, _ := url.Parse("http://origin/figure.jpg")
	rel, _ := url.Parse("/figure.jpg")
	if !IsAbsolute(abs) {
		t.Fatal("expected absolute")
	}
	if IsAbsolute(rel) || IsAbsolute(nil) {
		t.Fatal("expected relative")
	}
}

func TestRemoveDotSegments(t *testing.T) {
	tests := map[string]string{
		"/a/b/c/./../../g":   "/a/g",
		"mid/content=5/../6": "mid/6",
		"/..":                "/",
		"/a/b/..":            "/a/",
		"":                   "",
	}
	for in, want := range tests {
		if got := removeDotSegments(in); got != want {
			t.Fatalf("removeDotSegments(%q) = %q, want %q", in, got, want)
		}
	}
}
