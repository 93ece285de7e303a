package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/logging"
)

var (
	configPath  string
	flagConfig  config.Config
	flagBrowser bool

	// appConfig is the effective configuration, set before any command runs.
	appConfig config.Config
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by env and flags)")
	pf.StringVar(&flagConfig.DatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL; empty uses in-memory stores)")
	pf.StringVar(&flagConfig.GeminiAPIKey, "gemini-api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	pf.StringVar(&flagConfig.AnthropicAPIKey, "anthropic-api-key", "", "Anthropic API key (defaults to ANTHROPIC_API_KEY)")
	pf.StringVar(&flagConfig.ReaderBaseURL, "reader-url", "", "Content-extraction reader service base URL")
	pf.BoolVar(&flagBrowser, "use-browser", false, "Render client-side job pages with headless Chrome when fetching directly")
	pf.StringVar(&flagConfig.PipelineTimeout, "timeout", "", "Overall analysis timeout, e.g. 90s")
	pf.StringVar(&flagConfig.TemplatesDir, "templates-dir", "", "Directory of extra template JSON files")
	pf.StringVar(&flagConfig.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagConfig.LogFormat, "log-format", "", "Log format: json or pretty")
}

// initConfig resolves the effective configuration and installs the logger.
func initConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(configPath, os.Getenv, flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = flagBrowser
	}
	appConfig = cfg

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return nil
}

// resolveConfig layers file, environment and flag values, later layers winning.
func resolveConfig(path string, getenv func(string) string, flags config.Config) (config.Config, error) {
	var base config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		base = *loaded
	}
	base.ApplyEnv(getenv)

	cfg := flags.MergeWithDefaults(base)
	cfg.UseBrowser = base.UseBrowser
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
