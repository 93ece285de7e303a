// Package fetch turns a job-posting URL into plain text. Two readers are
// provided: ReaderClient delegates to a hosted content-extraction service and
// DirectFetcher downloads the page itself.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-analyzer/internal/apperr"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent with every outbound request.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeAnalyzer/1.0)"

// DefaultMaxBodyBytes caps how much of a response is read.
const DefaultMaxBodyBytes = 5 << 20

// Reader returns a plain-text rendering of the page at a URL.
type Reader interface {
	Read(ctx context.Context, url string) (string, error)
}

// Result holds the raw content of a fetched page.
type Result struct {
	URL         string
	Body        string
	ContentType string
	StatusCode  int
}

// Error is a failed fetch of URL.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a single GET.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Headers      map[string]string
	MaxBodyBytes int64
	Client       *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// ValidateURL reports whether raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &Error{URL: raw, Message: "invalid URL", Cause: err}
	}
	return nil
}

// Get performs a GET against urlStr. A non-200 status returns both the
// result and an *Error so callers can inspect the body.
func Get(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := ValidateURL(urlStr); err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	limit := opts.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: urlStr, StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}

// classify maps a fetch failure onto the application error taxonomy.
// Invalid URLs are the caller's fault, throttling and server errors are
// transient, and any other refusal means the page cannot be read and the
// user should paste the text instead.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if !errors.As(err, &fe) {
		return apperr.Wrap(apperr.KindUpstreamUnavailable, err, "could not fetch the job posting")
	}
	var netErr net.Error
	switch {
	case fe.Message == "invalid URL":
		return apperr.Wrap(apperr.KindValidation, err, "job URL must be an absolute http(s) URL")
	case fe.StatusCode == http.StatusTooManyRequests || fe.StatusCode >= 500:
		return apperr.Wrap(apperr.KindUpstreamUnavailable, err, "the job site is not responding, please try again later")
	case fe.StatusCode != 0:
		return apperr.Wrap(apperr.KindUnextractableContent, err, "the job page could not be read, please paste the description instead")
	case errors.As(err, &netErr):
		return apperr.Wrap(apperr.KindUpstreamUnavailable, err, "could not reach the job site")
	default:
		return apperr.Wrap(apperr.KindUpstreamUnavailable, err, "could not fetch the job posting")
	}
}

// ExtractMainText parses HTML and returns the text of the first element
// matching contentSelectors after removing page chrome and noiseSelectors.
// With no match the whole body is used.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, svg, iframe, .ad, .advertisement, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	// Block elements end a line so paragraph structure survives Text().
	main.Find("p, li, h1, h2, h3, h4, h5, h6, div, br, tr").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})
	main.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml("\n")
	})

	return cleanWhitespace(main.Text()), nil
}

// JobPostingSelectors are content selectors for job boards without a platform profile.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
