package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/builder"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/jobsource"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/pdftext"
	"github.com/jonathan/resume-analyzer/internal/rendering"
)

// browserTimeout bounds one headless render of a job page.
const browserTimeout = 45 * time.Second

// app holds the wired services shared by the commands.
type app struct {
	store     db.Store
	pg        *db.DB // nil when running on in-memory stores
	llm       *llm.Orchestrator
	resolver  *jobsource.Resolver
	templates *rendering.Registry
	analysis  *analysis.Service
	builder   *builder.Service

	closers []func()
	logger  zerolog.Logger
}

// newApp connects the store, builds the providers and wires the services.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{logger: logging.Component("app")}

	if cfg.DatabaseURL != "" {
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		if err := pg.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		a.pg = pg
		a.store = pg
	} else {
		a.logger.Warn().Msg("DATABASE_URL not set, using in-memory stores")
		a.store = db.NewMemoryStore()
	}

	orch, err := a.newOrchestrator(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.llm = orch

	a.resolver = jobsource.NewResolver(a.store, newReader(cfg))

	a.templates, err = rendering.NewRegistry(cfg.TemplatesDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	a.analysis = analysis.NewService(pdftext.NewExtractor(), a.resolver, orch, a.store, cfg.Timeout())
	a.analysis.MaxBytes = cfg.UploadLimit()

	b := builder.NewService(a.store, a.templates)
	b.Profiles = a.store
	b.Resumes = a.store
	b.Jobs = a.resolver
	b.PDF = rendering.NewPDFExporter()
	if orch.Available() {
		b.Assistant = orch
	}
	a.builder = b
	return a, nil
}

// newOrchestrator builds whichever providers have keys. With none, model
// calls fail with a configuration error instead of blocking startup.
func (a *app) newOrchestrator(ctx context.Context, cfg config.Config) (*llm.Orchestrator, error) {
	var primary, secondary llm.Provider
	modelCfg := llm.DefaultConfig()

	if cfg.GeminiAPIKey != "" {
		g, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, modelCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		a.closers = append(a.closers, func() { _ = g.Close() })
		primary = g
	}
	if cfg.AnthropicAPIKey != "" {
		c, err := llm.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel, modelCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
		}
		secondary = c
	}
	if primary == nil && secondary == nil {
		a.logger.Warn().Msg("no model provider keys configured; analysis and assist calls will fail")
	}
	return llm.NewOrchestrator(primary, secondary), nil
}

// newReader picks the reader service when configured, else direct fetching
// with an optional headless-browser pass.
func newReader(cfg config.Config) fetch.Reader {
	if cfg.ReaderBaseURL != "" {
		return fetch.NewReaderClient(cfg.ReaderBaseURL, cfg.ReaderAPIKey)
	}
	var render fetch.RenderFunc
	if cfg.UseBrowser {
		render = fetch.BrowserRenderer(browserTimeout)
	}
	return fetch.NewDirectFetcher(render)
}

// Close releases connections in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
