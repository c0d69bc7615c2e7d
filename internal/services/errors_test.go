package services_test

import (
	"errors"
	"strings"
	"testing"

	"contentstore/internal/queue"
	"contentstore/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "migrate", "fetch", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"migrate", "fetch", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutContext(t *testing.T) {
	err := services.Wrap(nil, " ", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker by default, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

type kindError struct{ kind string }

func (e kindError) Error() string     { return "kind error" }
func (e kindError) ErrorKind() string { return e.kind }
func (e kindError) ErrorHint() string { return "fix the input" }

func TestFailureStatusMapping(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "migrate", "prepare", "invalid", nil)
	if status := services.FailureStatus(validationErr); status != queue.StatusReview {
		t.Fatalf("expected review for validation error, got %s", status)
	}

	transientErr := services.Wrap(services.ErrTransient, "migrate", "store", "write failed", errors.New("io"))
	if status := services.FailureStatus(transientErr); status != queue.StatusFailed {
		t.Fatalf("expected failed for transient error, got %s", status)
	}

	if status := services.FailureStatus(kindError{kind: "validation"}); status != queue.StatusReview {
		t.Fatalf("expected review for classified validation error, got %s", status)
	}

	if status := services.FailureStatus(nil); status != queue.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}

func TestDetailsPrefersDeclaredKind(t *testing.T) {
	details := services.Details(kindError{kind: "validation"})
	if details.Kind != "validation" {
		t.Fatalf("unexpected kind %q", details.Kind)
	}
	if details.Hint != "fix the input" {
		t.Fatalf("unexpected hint %q", details.Hint)
	}

	details = services.Details(services.Wrap(services.ErrConfiguration, "config", "", "bad", nil))
	if details.Kind != "configuration" {
		t.Fatalf("unexpected kind %q", details.Kind)
	}
	if services.Details(nil).Kind != "" {
		t.Fatal("expected empty details for nil error")
	}
}
