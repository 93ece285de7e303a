package llm

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/logging"
)

// Via records which provider produced a result.
type Via string

const (
	ViaPrimary   Via = "primary"
	ViaSecondary Via = "secondary"
)

// Tagged is a value together with the provider that produced it.
type Tagged[T any] struct {
	Via   Via
	Model string
	Value T
}

// Orchestrator routes requests to the primary provider and falls back to the
// secondary exactly once when the primary is rate-limited. Either provider
// may be nil.
type Orchestrator struct {
	Primary   Provider
	Secondary Provider
	Logger    zerolog.Logger
}

// NewOrchestrator creates an orchestrator over the given providers.
func NewOrchestrator(primary, secondary Provider) *Orchestrator {
	return &Orchestrator{
		Primary:   primary,
		Secondary: secondary,
		Logger:    logging.Component("llm"),
	}
}

// Available reports whether at least one provider is configured.
func (o *Orchestrator) Available() bool {
	return o != nil && (o.Primary != nil || o.Secondary != nil)
}

// Complete sends req and returns the raw reply text.
//
// When only the secondary is configured it is used directly. A primary
// failure other than a rate limit is returned without touching the
// secondary; a rate limit triggers one secondary call whose outcome is final.
func (o *Orchestrator) Complete(ctx context.Context, req Request) (Tagged[string], error) {
	if !o.Available() {
		return Tagged[string]{}, apperr.New(apperr.KindConfiguration, "no model provider is configured")
	}
	if o.Primary == nil {
		out, err := o.call(ctx, o.Secondary, ViaSecondary, req)
		if err != nil {
			return Tagged[string]{}, classify(err)
		}
		return out, nil
	}

	out, err := o.call(ctx, o.Primary, ViaPrimary, req)
	if err == nil {
		return out, nil
	}
	if statusOf(err) != 429 || ctx.Err() != nil {
		return Tagged[string]{}, classify(err)
	}
	if o.Secondary == nil {
		o.Logger.Warn().Str("provider", o.Primary.Name()).Msg("primary provider rate-limited and no secondary configured")
		return Tagged[string]{}, classify(err)
	}

	o.Logger.Warn().
		Str("primary", o.Primary.Name()).
		Str("secondary", o.Secondary.Name()).
		Msg("primary provider rate-limited, falling back")
	out, err = o.call(ctx, o.Secondary, ViaSecondary, req)
	if err != nil {
		return Tagged[string]{}, classify(err)
	}
	return out, nil
}

func (o *Orchestrator) call(ctx context.Context, p Provider, via Via, req Request) (Tagged[string], error) {
	text, err := p.Generate(ctx, req)
	if err != nil {
		o.Logger.Debug().Err(err).Str("provider", p.Name()).Msg("provider call failed")
		return Tagged[string]{}, err
	}
	return Tagged[string]{Via: via, Model: p.Name(), Value: text}, nil
}
