package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/fetch"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := writeConfig(t, `{"port": 9000, "gemini_model": "file-model", "log_level": "debug", "use_browser": true, "pipeline_timeout": "30s"}`)
	env := map[string]string{"GEMINI_MODEL": "env-model", "GEMINI_API_KEY": "env-key"}
	flags := config.Config{LogLevel: "warn"}

	cfg, err := resolveConfig(path, func(k string) string { return env[k] }, flags)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "env-model", cfg.GeminiModel)
	assert.Equal(t, "env-key", cfg.GeminiAPIKey)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, config.DefaultMaxUploadBytes, cfg.MaxUploadBytes)
}

func TestResolveConfig_Invalid(t *testing.T) {
	path := writeConfig(t, `{"pipeline_timeout": "soon"}`)
	_, err := resolveConfig(path, func(string) string { return "" }, config.Config{})
	assert.Error(t, err)

	_, err = resolveConfig(filepath.Join(t.TempDir(), "missing.json"), func(string) string { return "" }, config.Config{})
	assert.Error(t, err)
}

func TestNewReader(t *testing.T) {
	assert.IsType(t, &fetch.ReaderClient{}, newReader(config.Config{ReaderBaseURL: "https://reader.example.com"}))
	assert.IsType(t, &fetch.DirectFetcher{}, newReader(config.Config{}))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTemplatesCommand(t *testing.T) {
	out, err := execute(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "classic")
}

func TestMigratePrint(t *testing.T) {
	out, err := execute(t, "migrate", "--print")
	require.NoError(t, err)
	assert.Contains(t, out, "resume_metadata")
}

func TestRenderPreviewCommand(t *testing.T) {
	out, err := execute(t, "render", "--preview", "--template", "modern")
	require.NoError(t, err)
	assert.Contains(t, out, "Alex Morgan")
}

func TestExtractRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	_, err := execute(t, "extract", "--resume", path)
	assert.ErrorContains(t, err, "not a PDF")
}
