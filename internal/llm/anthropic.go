package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider calls Anthropic's Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
	config Config
}

// NewAnthropicProvider creates an Anthropic provider. SDK retries are
// disabled; the orchestrator owns the only retry.
func NewAnthropicProvider(apiKey, model string, cfg Config, opts ...anthropicoption.RequestOption) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, &ProviderError{Provider: "anthropic", Message: "API key is required"}
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	base := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(append(base, opts...)...),
		model:  model,
		config: cfg.withDefaults(),
	}, nil
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string {
	return "anthropic/" + p.model
}

// Generate implements Provider. Anthropic has no JSON mode; the prompt
// carries the JSON-only instruction.
func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(p.config.MaxTokens),
		Temperature: anthropic.Float(p.config.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		status := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", &ProviderError{Provider: p.Name(), StatusCode: status, Message: "messages request failed", Cause: err}
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &ProviderError{Provider: p.Name(), StatusCode: 502, Message: "no text content in response"}
	}
	return sb.String(), nil
}
