package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_WrappedError(t *testing.T) {
	base := New(KindNotFound, "job %s not found", "42")
	wrapped := fmt.Errorf("resolve job: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.Equal(t, "job 42 not found", Message(wrapped))
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.False(t, Is(nil, KindInternal))
}

func TestWrap_DeadlineBecomesUpstreamUnavailable(t *testing.T) {
	err := Wrap(KindMalformedResponse, context.DeadlineExceeded, "model call")
	assert.Equal(t, KindUpstreamUnavailable, err.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKindOf_BareDeadline(t *testing.T) {
	err := fmt.Errorf("fetch: %w", context.DeadlineExceeded)
	assert.Equal(t, KindUpstreamUnavailable, KindOf(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindExtraction, http.StatusBadRequest},
		{KindUnextractableContent, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConfiguration, http.StatusInternalServerError},
		{KindUpstreamUnavailable, http.StatusServiceUnavailable},
		{KindMalformedResponse, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(New(tt.kind, "x")))
		})
	}
}

func TestError_Message(t *testing.T) {
	err := Wrap(KindExtraction, errors.New("bad xref"), "could not read PDF")
	assert.Equal(t, "extraction: could not read PDF: bad xref", err.Error())
	assert.Equal(t, "validation: missing job", New(KindValidation, "missing job").Error())
}
