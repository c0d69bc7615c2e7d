package queue

import "errors"

// ErrDuplicateItem is returned when a content item version is already queued.
var ErrDuplicateItem = errors.New("content item version already queued")

// Failure kinds recorded in error_kind.
const (
	KindValidation    = "validation"
	KindConfiguration = "configuration"
	KindNotFound      = "not_found"
	KindExternal      = "external"
	KindTimeout       = "timeout"
	KindTransient     = "transient"
)

// ErrorClassifier is implemented by errors that know their failure kind.
type ErrorClassifier interface {
	ErrorKind() string
}

// StatusForKind returns StatusReview for kinds an operator has to fix by hand
// (bad input, bad configuration, missing content) and StatusFailed otherwise.
func StatusForKind(kind string) Status {
	switch kind {
	case KindValidation, KindConfiguration, KindNotFound:
		return StatusReview
	default:
		return StatusFailed
	}
}

// FailureStatus classifies err by the kind it declares. Errors without a kind
// are treated as retryable failures.
func FailureStatus(err error) Status {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return StatusForKind(classifier.ErrorKind())
	}
	return StatusFailed
}
