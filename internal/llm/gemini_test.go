package llm

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), "", "", Config{})
	assert.Error(t, err)
}

func TestGeminiStatus(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", &googleapi.Error{Code: 429, Message: "quota"})

	assert.Equal(t, 429, geminiStatus(wrapped))
	assert.Equal(t, 0, geminiStatus(fmt.Errorf("dial tcp: refused")))
}

func TestGeminiText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(` 1}`)}},
		}},
	}

	text, err := geminiText(resp)

	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, text)
}

func TestGeminiText_Empty(t *testing.T) {
	_, err := geminiText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = geminiText(nil)
	assert.Error(t, err)
}
