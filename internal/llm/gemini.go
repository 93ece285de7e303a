package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiProvider calls Google Gemini.
type GeminiProvider struct {
	client *genai.Client
	model  string
	config Config
}

// NewGeminiProvider creates a Gemini provider. It fails when apiKey is empty.
func NewGeminiProvider(ctx context.Context, apiKey, model string, cfg Config) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, &ProviderError{Provider: "gemini", Message: "API key is required"}
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Message: "failed to create client", Cause: err}
	}
	return &GeminiProvider{client: client, model: model, config: cfg.withDefaults()}, nil
}

// Name implements Provider.
func (p *GeminiProvider) Name() string {
	return "gemini/" + p.model
}

// Generate implements Provider.
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(float32(p.config.Temperature))
	model.SetMaxOutputTokens(int32(p.config.MaxTokens))
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), StatusCode: geminiStatus(err), Message: "generate content failed", Cause: err}
	}
	text, err := geminiText(resp)
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), StatusCode: 502, Message: err.Error()}
	}
	return text, nil
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// geminiStatus recovers the HTTP status from a Gemini error. REST errors are
// *googleapi.Error; errors wrapped by gax expose HTTPCode.
func geminiStatus(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	var coded interface{ HTTPCode() int }
	if errors.As(err, &coded) && coded.HTTPCode() > 0 {
		return coded.HTTPCode()
	}
	return 0
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", errors.New("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
