package assets

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		err   error
		title string
		frag  string
	}{
		{&AssetLoadFailedError{Asset: "http://o/a.jpg", Reason: "404 Not Found"}, "Failed to load asset", "404 Not Found"},
		{&AssetDeployFailedError{From: "http://o/a.jpg", To: "id/v1/x.jpeg"}, "Failed to deploy asset", "id/v1/x.jpeg"},
		{&InvalidContentTypeError{ContentType: "foo", URI: "http://o/a"}, "Invalid Content-Type", `"foo"`},
		{&UnknownContentTypeError{URI: "http://o/a.foo"}, "Unknown Content-Type", "http://o/a.foo"},
		{errors.New("boom"), "Asset migration failed", "boom"},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("stage: %w", tt.err)
		got := Describe(wrapped)
		if got.Title != tt.title {
			t.Fatalf("title = %q, want %q", got.Title, tt.title)
		}
		if !strings.Contains(got.Detail, tt.frag) {
			t.Fatalf("detail %q missing %q", got.Detail, tt.frag)
		}
	}
	if Describe(nil) != (Diagnostic{}) {
		t.Fatal("expected empty diagnostic for nil")
	}
}

func TestErrorKinds(t *testing.T) {
	kinds := map[string]interface{ ErrorKind() string }{
		"external":   &AssetDeployFailedError{},
		"validation": &UnknownContentTypeError{},
	}
	for want, err := range kinds {
		if got := err.ErrorKind(); got != want {
			t.Fatalf("ErrorKind = %q, want %q", got, want)
		}
	}
	cause := errors.New("disk full")
	err := &AssetDeployFailedError{From: "a", To: "b", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to unwrap")
	}
	if err.Error() != "Failed to move asset from a to b" {
		t.Fatalf("message = %q", err.Error())
	}
}
