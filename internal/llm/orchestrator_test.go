package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/apperr"
)

func TestComplete_PrimaryAnswers(t *testing.T) {
	primary := &fakeProvider{name: "gemini/test", replies: []string{"ok"}}
	secondary := &fakeProvider{name: "anthropic/test"}

	out, err := NewOrchestrator(primary, secondary).Complete(context.Background(), Request{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, ViaPrimary, out.Via)
	assert.Equal(t, "gemini/test", out.Model)
	assert.Equal(t, "ok", out.Value)
	assert.Equal(t, 0, secondary.calls())
}

func TestComplete_RateLimitFallsBackOnce(t *testing.T) {
	primary := &fakeProvider{name: "gemini/test", errs: []error{statusErr(429)}}
	secondary := &fakeProvider{name: "anthropic/test", replies: []string{"from secondary"}}

	out, err := NewOrchestrator(primary, secondary).Complete(context.Background(), Request{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, ViaSecondary, out.Via)
	assert.Equal(t, "anthropic/test", out.Model)
	assert.Equal(t, 1, primary.calls())
	assert.Equal(t, 1, secondary.calls())
	assert.Equal(t, primary.prompts, secondary.prompts)
}

func TestComplete_SecondaryFailureIsFinal(t *testing.T) {
	primary := &fakeProvider{name: "p", errs: []error{statusErr(429)}}
	secondary := &fakeProvider{name: "s", errs: []error{statusErr(429)}}

	_, err := NewOrchestrator(primary, secondary).Complete(context.Background(), Request{Prompt: "p"})

	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
	assert.Equal(t, 1, primary.calls())
	assert.Equal(t, 1, secondary.calls())
}

func TestComplete_NoFallbackOnOtherFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   apperr.Kind
	}{
		{"unauthorized", 401, apperr.KindConfiguration},
		{"forbidden", 403, apperr.KindConfiguration},
		{"unknown model", 404, apperr.KindConfiguration},
		{"server error", 500, apperr.KindUpstreamUnavailable},
		{"unavailable", 503, apperr.KindUpstreamUnavailable},
		{"bad request", 400, apperr.KindInternal},
		{"network", 0, apperr.KindUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &fakeProvider{name: "p", errs: []error{statusErr(tt.status)}}
			secondary := &fakeProvider{name: "s", replies: []string{"unused"}}

			_, err := NewOrchestrator(primary, secondary).Complete(context.Background(), Request{Prompt: "p"})

			require.Error(t, err)
			assert.Equal(t, tt.want, apperr.KindOf(err))
			assert.Equal(t, 0, secondary.calls())
		})
	}
}

func TestComplete_RateLimitWithoutSecondary(t *testing.T) {
	primary := &fakeProvider{name: "p", errs: []error{statusErr(429)}}

	_, err := NewOrchestrator(primary, nil).Complete(context.Background(), Request{Prompt: "p"})

	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
}

func TestComplete_SecondaryOnly(t *testing.T) {
	secondary := &fakeProvider{name: "s", replies: []string{"hi"}}

	out, err := NewOrchestrator(nil, secondary).Complete(context.Background(), Request{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, ViaSecondary, out.Via)
}

func TestComplete_NoProviders(t *testing.T) {
	_, err := NewOrchestrator(nil, nil).Complete(context.Background(), Request{Prompt: "p"})

	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
}

func TestComplete_DeadlineIsUpstreamUnavailable(t *testing.T) {
	primary := &fakeProvider{name: "p", errs: []error{
		&ProviderError{Provider: "p", Message: "timeout", Cause: context.DeadlineExceeded},
	}}

	_, err := NewOrchestrator(primary, nil).Complete(context.Background(), Request{Prompt: "p"})

	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestProviderError_Message(t *testing.T) {
	err := &ProviderError{Provider: "gemini/x", StatusCode: 429, Message: "quota", Cause: errors.New("slow down")}

	assert.Equal(t, "gemini/x: quota (status 429): slow down", err.Error())
	assert.True(t, err.RateLimited())
}
