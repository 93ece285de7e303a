package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/apperr"
)

// Request is one prompt sent to a provider.
type Request struct {
	Prompt string
	// JSON asks the provider for a JSON-only reply where it supports that.
	JSON bool
}

// Provider is a text-completion backend.
type Provider interface {
	// Name identifies provider and model, e.g. "gemini/gemini-2.5-flash".
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// ProviderError is a failed provider call. StatusCode is the HTTP status the
// provider answered with, or 0 when no response was received.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// RateLimited reports whether the provider refused the call for quota reasons.
func (e *ProviderError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// statusOf extracts the HTTP status of a provider failure.
func statusOf(err error) int {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}

// classify maps a provider failure onto the application error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.KindUpstreamUnavailable, err, "the analysis service took too long, please try again")
	}
	status := statusOf(err)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperr.Wrap(apperr.KindConfiguration, err, "model provider rejected the configured credentials")
	case status == http.StatusNotFound:
		return apperr.Wrap(apperr.KindConfiguration, err, "model provider does not know the configured model")
	case status == http.StatusTooManyRequests || status >= 500 || status == 0:
		return apperr.Wrap(apperr.KindUpstreamUnavailable, err, "the analysis service is temporarily unavailable, please try again")
	default:
		return apperr.Wrap(apperr.KindInternal, err, "model provider rejected the request")
	}
}
