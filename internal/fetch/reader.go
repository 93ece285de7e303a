package fetch

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/logging"
)

// DefaultReaderBaseURL is the hosted content-extraction service.
const DefaultReaderBaseURL = "https://r.jina.ai"

// ReaderClient reads pages through a content-extraction service that answers
// GET {BaseURL}/{url} with a markdown rendering of the page. APIKey is
// optional and only raises the service's quota.
type ReaderClient struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Client  *http.Client
	Logger  zerolog.Logger
}

// NewReaderClient returns a client for baseURL, or the default service when empty.
func NewReaderClient(baseURL, apiKey string) *ReaderClient {
	if baseURL == "" {
		baseURL = DefaultReaderBaseURL
	}
	return &ReaderClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Timeout: DefaultTimeout,
		Logger:  logging.Component("fetch.reader"),
	}
}

// Read implements Reader.
func (c *ReaderClient) Read(ctx context.Context, pageURL string) (string, error) {
	if err := ValidateURL(pageURL); err != nil {
		return "", classify(err)
	}

	headers := map[string]string{
		"Accept":          "text/plain",
		"X-Return-Format": "markdown",
	}
	if c.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.APIKey
	}

	start := time.Now()
	res, err := Get(ctx, c.BaseURL+"/"+strings.TrimSpace(pageURL), &Options{
		Timeout:      c.Timeout,
		Headers:      headers,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Client:       c.Client,
	})
	if err != nil {
		c.Logger.Warn().Err(err).Str("url", pageURL).Msg("reader fetch failed")
		return "", classify(err)
	}

	text := strings.TrimSpace(res.Body)
	c.Logger.Debug().
		Str("url", pageURL).
		Int("chars", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("reader fetch complete")
	if text == "" {
		return "", apperr.New(apperr.KindUnextractableContent, "the job page came back empty, please paste the description instead")
	}
	return text, nil
}
