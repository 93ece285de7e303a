// Package apperr defines the error taxonomy shared by the analysis and builder pipelines.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can decide between retrying,
// asking the user for different input, or reporting a hard failure.
type Kind string

const (
	// KindValidation is bad or missing input; always user-correctable.
	KindValidation Kind = "validation"
	// KindExtraction is an unreadable resume document.
	KindExtraction Kind = "extraction"
	// KindUnextractableContent means a job URL was fetched but the posting could not be isolated.
	KindUnextractableContent Kind = "unextractable_content"
	// KindNotFound is an unknown identifier.
	KindNotFound Kind = "not_found"
	// KindConfiguration is an operator fault such as missing provider credentials.
	KindConfiguration Kind = "configuration"
	// KindUpstreamUnavailable is a transient provider or network failure.
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	// KindMalformedResponse means a provider answered but violated the response contract.
	KindMalformedResponse Kind = "malformed_response"
	// KindInternal is anything unexpected.
	KindInternal Kind = "internal"
)

// Error carries a Kind together with a user-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error without a cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause. A deadline or cancellation in cause
// is reported as KindUpstreamUnavailable regardless of kind.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	if cause != nil && (errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled)) {
		kind = KindUpstreamUnavailable
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the Kind of the outermost *Error in the chain.
// Errors outside the taxonomy are KindInternal, except context deadlines
// which are KindUpstreamUnavailable.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindUpstreamUnavailable
	}
	return KindInternal
}

// Is reports whether err belongs to kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message of err, falling back to a generic one
// for errors outside the taxonomy.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "the request took too long, please try again"
	}
	return "internal error"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindExtraction, KindUnextractableContent:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case KindMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
