// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultMaxUploadBytes is the largest resume upload accepted (10 MiB).
const DefaultMaxUploadBytes int64 = 10 << 20

// DefaultPipelineTimeout bounds one analysis call end to end.
const DefaultPipelineTimeout = 90 * time.Second

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment variables or CLI flags.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty uses in-memory stores

	// Model providers
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`    // Primary provider key
	GeminiModel     string `json:"gemini_model,omitempty"`      // Primary provider model
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"` // Fallback provider key
	AnthropicModel  string `json:"anthropic_model,omitempty"`   // Fallback provider model

	// Job URL fetching
	ReaderBaseURL string `json:"reader_base_url,omitempty"` // Content-extraction reader service, e.g. https://r.jina.ai
	ReaderAPIKey  string `json:"reader_api_key,omitempty"`  // Optional key for a higher quota tier
	UseBrowser    bool   `json:"use_browser,omitempty"`     // Headless browser fallback for SPA pages when fetching directly

	// Limits
	MaxUploadBytes  int64  `json:"max_upload_bytes,omitempty"`
	PipelineTimeout string `json:"pipeline_timeout,omitempty"` // Go duration string

	// Rendering
	TemplatesDir string `json:"templates_dir,omitempty"` // Extra operator-authored templates

	// Logging
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"` // json or pretty
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overlays well-known environment variables onto c.
// Environment values win over file values.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.AnthropicModel, "ANTHROPIC_MODEL")
	setString(&c.ReaderBaseURL, "READER_BASE_URL")
	setString(&c.ReaderAPIKey, "READER_API_KEY")
	setString(&c.PipelineTimeout, "PIPELINE_TIMEOUT")
	setString(&c.TemplatesDir, "TEMPLATES_DIR")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	if v := getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := getenv("USE_BROWSER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.UseBrowser = b
		}
	}
	if v := getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxUploadBytes = n
		}
	}
}

// Validate checks that the configuration has valid values.
// Missing provider keys are not an error here; they surface on first model use.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.PipelineTimeout != "" {
		d, err := time.ParseDuration(c.PipelineTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'pipeline_timeout': %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'pipeline_timeout' must be positive")
		}
	}
	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "pretty" {
		return fmt.Errorf("config error: 'log_format' must be json or pretty")
	}

	if c.TemplatesDir != "" {
		if _, err := os.Stat(c.TemplatesDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: templates directory not found: %s", c.TemplatesDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.GeminiModel == "" {
		result.GeminiModel = defaults.GeminiModel
	}
	if result.AnthropicAPIKey == "" {
		result.AnthropicAPIKey = defaults.AnthropicAPIKey
	}
	if result.AnthropicModel == "" {
		result.AnthropicModel = defaults.AnthropicModel
	}
	if result.ReaderBaseURL == "" {
		result.ReaderBaseURL = defaults.ReaderBaseURL
	}
	if result.ReaderAPIKey == "" {
		result.ReaderAPIKey = defaults.ReaderAPIKey
	}
	if result.PipelineTimeout == "" {
		result.PipelineTimeout = defaults.PipelineTimeout
	}
	if result.TemplatesDir == "" {
		result.TemplatesDir = defaults.TemplatesDir
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		if defaults.MaxUploadBytes > 0 {
			result.MaxUploadBytes = defaults.MaxUploadBytes
		} else {
			result.MaxUploadBytes = DefaultMaxUploadBytes
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Timeout returns the parsed pipeline timeout, or the default when unset or invalid.
func (c *Config) Timeout() time.Duration {
	if c.PipelineTimeout == "" {
		return DefaultPipelineTimeout
	}
	d, err := time.ParseDuration(c.PipelineTimeout)
	if err != nil || d <= 0 {
		return DefaultPipelineTimeout
	}
	return d
}

// UploadLimit returns the configured upload limit or the default.
func (c *Config) UploadLimit() int64 {
	if c.MaxUploadBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return c.MaxUploadBytes
}
