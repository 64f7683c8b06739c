// Package errs defines the error taxonomy shared across the RAG pipeline.
//
// Every failure that can cross a component boundary is tagged with a Kind so
// that callers (the HTTP layer, tests, retry policies) can branch on the
// class of failure without string matching.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a class of failure.
type Kind string

const (
	// KindConfiguration is fatal and startup-only: a missing corpus,
	// credential, or embedding capability discovered while wiring the
	// process.
	KindConfiguration Kind = "configuration_error"

	// KindInput marks caller mistakes (text outside length bounds). The
	// caller can correct its input and retry.
	KindInput Kind = "input_error"

	// KindEmbedding marks an embedding capability failure at call time.
	KindEmbedding Kind = "embedding_error"

	// KindModelUnavailable marks a network, timeout, or quota failure while
	// calling the generative model.
	KindModelUnavailable Kind = "model_unavailable"

	// KindEmptyOutput marks a model response with no content at all.
	KindEmptyOutput Kind = "empty_output"

	// KindMalformedOutput marks model output from which no structured
	// payload could be parsed.
	KindMalformedOutput Kind = "malformed_output"

	// KindValidation marks a payload that parsed but failed schema checks.
	KindValidation Kind = "validation_error"

	// KindNotFound marks operations referencing an unknown document id.
	KindNotFound Kind = "not_found"

	// KindStorage marks document store failures (I/O, SQL).
	KindStorage Kind = "storage_error"

	// KindInternal is the fallback for everything unclassified.
	KindInternal Kind = "internal_error"
)

// Error is the taxonomy-aware error carried across component boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Wrapf attaches a kind and formatted message to an underlying cause.
func Wrapf(err error, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from an error chain, or KindInternal when the
// chain carries no taxonomy error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return KindValidation
	}
	return KindInternal
}

// Is reports whether the error chain carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a kind to the HTTP status the transport layer should use.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInput, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindModelUnavailable, KindEmbedding:
		return http.StatusServiceUnavailable
	case KindEmptyOutput, KindMalformedOutput:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FieldViolation describes a single schema violation in a model payload.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every violated field of a model payload in one
// failure. It is never raised for the first violation alone.
type ValidationError struct {
	Violations []FieldViolation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "[validation_error] payload failed validation"
	}
	msg := fmt.Sprintf("[validation_error] payload failed validation (%d violations):", len(e.Violations))
	for _, v := range e.Violations {
		msg += fmt.Sprintf(" %s: %s;", v.Field, v.Reason)
	}
	return msg
}

// Add records one violation.
func (e *ValidationError) Add(field, reason string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Reason: reason})
}

// Addf records one violation with a formatted reason.
func (e *ValidationError) Addf(field, format string, args ...interface{}) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// HasViolations reports whether any violation was recorded.
func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}
