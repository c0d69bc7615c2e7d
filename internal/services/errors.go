package services

import (
	"errors"
	"fmt"
	"strings"

	"contentstore/internal/queue"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorDetails is the log-friendly breakdown of a stage error.
type ErrorDetails struct {
	Kind    string
	Message string
	Hint    string
	Cause   error
}

type hinter interface {
	ErrorHint() string
}

// Details extracts the classification, message and operator hint carried by err.
// Errors implementing queue.ErrorClassifier take precedence over the sentinel
// markers.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	details := ErrorDetails{Message: strings.TrimSpace(err.Error()), Cause: errors.Unwrap(err)}

	var k queue.ErrorClassifier
	switch {
	case errors.As(err, &k):
		details.Kind = k.ErrorKind()
	case errors.Is(err, ErrValidation):
		details.Kind = queue.KindValidation
	case errors.Is(err, ErrConfiguration):
		details.Kind = queue.KindConfiguration
	case errors.Is(err, ErrNotFound):
		details.Kind = queue.KindNotFound
	case errors.Is(err, ErrTimeout):
		details.Kind = queue.KindTimeout
	case errors.Is(err, ErrExternalTool):
		details.Kind = queue.KindExternal
	default:
		details.Kind = queue.KindTransient
	}

	var h hinter
	if errors.As(err, &h) {
		details.Hint = h.ErrorHint()
	}
	return details
}

// FailureStatus maps a stage error to the queue status the workflow manager
// should persist after the stage fails. It agrees with the kind Details reports.
func FailureStatus(err error) queue.Status {
	if err == nil {
		return queue.StatusFailed
	}
	return queue.StatusForKind(Details(err).Kind)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
