package assets

import (
	"strings"
	"testing"

	"contentstore/internal/mediatype"
)

func mustMediaType(t *testing.T, value string) mediatype.MediaType {
	t.Helper()
	mt, err := mediatype.Parse(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return mt
}

func TestStoragePath(t *testing.T) {
	tests := []struct {
		mediaType string
		body      string
		want      string
	}{
		{"image/jpeg", "figure1", "id/v1/879f77a11b0649cb8af511fa5d6e4a7e.jpeg"},
		{"application/pdf", "article pdf", "id/v1/dcd99c5055598bed7350ec58a4153d5d.pdf"},
		{"application/xml", "figure2 xml", "id/v1/3f67ade33288e5f9a9f54b8bac3f3042.xml"},
		{"video/avi", "figure2 avi", "id/v1/f1aa6a59b56406414301af35cf1a1178"},
	}
	for _, tt := range tests {
		got, err := StoragePath("id", 1, mustMediaType(t, tt.mediaType), strings.NewReader(tt.body))
		if err != nil {
			t.Fatalf("StoragePath: %v", err)
		}
		if got != tt.want {
			t.Fatalf("StoragePath(%s) = %q, want %q", tt.mediaType, got, tt.want)
		}
	}
}

func TestStoragePathIsDeterministic(t *testing.T) {
	mt := mustMediaType(t, "image/png")
	first, _ := StoragePath("article-7", 3, mt, strings.NewReader("same bytes"))
	second, _ := StoragePath("article-7", 3, mt, strings.NewReader("same bytes"))
	if first != second {
		t.Fatalf("paths differ: %q vs %q", first, second)
	}
	other, _ := StoragePath("article-7", 4, mt, strings.NewReader("same bytes"))
	if other == first {
		t.Fatal("version should change the path")
	}
}

func TestPublicURL(t *testing.T) {
	tests := map[[2]string]string{
		{"http://public-assets/path", "id/v1/a.jpeg"}:   "http://public-assets/path/id/v1/a.jpeg",
		{"http://public-assets/path/", "/id/v1/a.jpeg"}: "http://public-assets/path/id/v1/a.jpeg",
		{"http://public-assets//", "a"}:                 "http://public-assets/a",
	}
	for in, want := range tests {
		if got := PublicURL(in[0], in[1]); got != want {
			t.Fatalf("PublicURL(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
