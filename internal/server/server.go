// Package server provides the HTTP API for resume analysis and the resume builder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/builder"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/server/middleware"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Analyzer runs the analysis pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// MetadataReader reads resume metadata records.
type MetadataReader interface {
	GetMetadata(ctx context.Context, id uuid.UUID) (*types.ResumeMetadata, error)
}

// Pinger reports backing-store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Port           int
	MaxUploadBytes int64
	RateLimit      *ratelimit.Config
}

// Deps are the services behind the routes. Health may be nil.
type Deps struct {
	Analyzer Analyzer
	Metadata MetadataReader
	Builder  *builder.Service
	Health   Pinger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	analyzer    Analyzer
	metadata    MetadataReader
	builder     *builder.Service
	health      Pinger
	rateLimiter *ratelimit.Limiter
	maxUpload   int64
	logger      zerolog.Logger
}

// New creates a server. It does not start listening.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		analyzer:    deps.Analyzer,
		metadata:    deps.Metadata,
		builder:     deps.Builder,
		health:      deps.Health,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		maxUpload:   cfg.MaxUploadBytes,
		logger:      logging.Component("server"),
	}
	if s.maxUpload <= 0 {
		s.maxUpload = analysis.DefaultMaxResumeBytes
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      180 * time.Second, // model calls plus PDF export
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Analysis
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /analyze/stream", s.handleAnalyzeStream)
	mux.HandleFunc("GET /resume-metadata/{id}", s.handleGetMetadata)

	// Projects and sections
	mux.HandleFunc("POST /projects", s.handleCreateProject)
	mux.HandleFunc("GET /projects/{id}", s.handleGetProject)
	mux.HandleFunc("PUT /projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("POST /projects/{id}/sections", s.handleAddSection)
	mux.HandleFunc("POST /projects/{id}/sections/reorder", s.handleReorderSections)
	mux.HandleFunc("PUT /sections/{id}", s.handleUpdateSection)
	mux.HandleFunc("DELETE /sections/{id}", s.handleDeleteSection)
	mux.HandleFunc("POST /projects/{id}/autofill", s.handleAutoFill)

	// AI assist
	mux.HandleFunc("POST /projects/{id}/assist/summary", s.handleAssistSummary)
	mux.HandleFunc("POST /projects/{id}/assist/ats", s.handleAssistATS)
	mux.HandleFunc("POST /assist/bullets", s.handleAssistBullets)

	// Rendering
	mux.HandleFunc("GET /projects/{id}/preview", s.handlePreview)
	mux.HandleFunc("POST /projects/{id}/export", s.handleExport)
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /templates/{slug}/preview", s.handleTemplatePreview)

	var h http.Handler = mux
	h = middleware.CORS(h)
	h = s.withRateLimit(h)
	h = middleware.Recover(s.logger)(h)
	h = middleware.Logging(s.logger)(h)
	return middleware.RequestID(h)
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	s.logger.Info().Msg("server stopped")
	return nil
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("health check failed")
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode JSON response")
	}
}

// clientID is the remote IP. Forwarded headers are not trusted.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	body := map[string]any{
		"error": "rate limit exceeded, please try again later",
		"kind":  "rate_limited",
		"limit": info.Limit,
	}
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Round(time.Second).Seconds())
		if secs < 1 {
			secs = 1
		}
		body["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	s.logger.Warn().Int("limit", info.Limit).Msg("rate limit exceeded")
	s.jsonResponse(w, http.StatusTooManyRequests, body)
}
