// Package llm talks to the language-model providers. A primary provider
// answers every request; a secondary provider is called only when the primary
// is rate-limited. Replies are cleaned up before decoding and checked against the
// response contract of each task.
package llm

import "github.com/anthropics/anthropic-sdk-go"

// Default models per provider.
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultAnthropicModel = string(anthropic.ModelClaude3_7SonnetLatest)
)

// Config holds sampling settings shared by both providers.
type Config struct {
	Temperature float64
	MaxTokens   int
}

// DefaultConfig returns the low-temperature settings used for structured replies.
func DefaultConfig() Config {
	return Config{Temperature: 0.1, MaxTokens: 4096}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Temperature <= 0 {
		c.Temperature = d.Temperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	return c
}
