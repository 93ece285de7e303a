// Package analysis runs the resume-vs-job pipeline: document text, personal
// details, anonymization, job resolution, scoring and the metadata cache.
package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/anonymize"
	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/jobsource"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/pdftext"
	"github.com/jonathan/resume-analyzer/internal/personal"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// TextExtractor reads the text layer of a document.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (*pdftext.Result, error)
}

// JobResolver turns a job source into job content.
type JobResolver interface {
	Resolve(ctx context.Context, req jobsource.Request) (*types.JobContent, error)
}

// Scorer compares an anonymized resume with a job.
type Scorer interface {
	ScoreResume(ctx context.Context, job types.JobContent, resume string) (llm.Tagged[*types.AnalysisResult], error)
}

// MetadataStore is the resume metadata cache.
type MetadataStore interface {
	UpsertByEmail(ctx context.Context, u db.MetadataUpsert) (uuid.UUID, error)
	GetMetadata(ctx context.Context, id uuid.UUID) (*types.ResumeMetadata, error)
}

// Step names a finished pipeline stage.
type Step string

const (
	StepResumeParsed Step = "resume_parsed"
	StepJobResolved  Step = "job_resolved"
	StepScored       Step = "scored"
	StepCached       Step = "cached"
)

// ProgressCallback is called after each stage, possibly from several
// goroutines at once. It must not block.
type ProgressCallback func(step Step)

// Result is the analysis returned to the caller.
type Result struct {
	types.AnalysisResult
	Provider  llm.Via       `json:"provider"`
	JobTitle  string        `json:"jobTitle,omitempty"`
	Extracted personal.Data `json:"extracted"`
	// ResumeID is the metadata record written for this analysis; empty when caching failed.
	ResumeID string `json:"resumeId,omitempty"`
}

// Service runs analyses.
type Service struct {
	Extractor TextExtractor
	Jobs      JobResolver
	Scorer    Scorer
	// Store may be nil, which disables caching and cache lookups.
	Store      MetadataStore
	Timeout    time.Duration
	MaxBytes   int64
	OnProgress ProgressCallback
	Logger     zerolog.Logger
}

// NewService creates a service with default limits.
func NewService(extractor TextExtractor, jobs JobResolver, scorer Scorer, store MetadataStore, timeout time.Duration) *Service {
	return &Service{
		Extractor: extractor,
		Jobs:      jobs,
		Scorer:    scorer,
		Store:     store,
		Timeout:   timeout,
		MaxBytes:  DefaultMaxResumeBytes,
		Logger:    logging.Component("analysis"),
	}
}

// resumeText is the privacy-processed resume.
type resumeText struct {
	parsed     string
	anonymized string
	extracted  personal.Data
	fileName   string
}

// Analyze runs the whole pipeline under the service deadline. Job resolution
// runs concurrently with resume processing. Cache write failures are logged
// and do not fail the analysis.
func (s *Service) Analyze(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(s.MaxBytes); err != nil {
		return nil, err
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	start := time.Now()

	var resume *resumeText
	var job *types.JobContent
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.loadResume(gCtx, req)
		if err != nil {
			return err
		}
		resume = r
		s.progress(ctx, StepResumeParsed)
		return nil
	})
	g.Go(func() error {
		j, err := s.Jobs.Resolve(gCtx, req.Job)
		if err != nil {
			return err
		}
		if strings.TrimSpace(j.Description) == "" {
			return apperr.New(apperr.KindValidation, "the job description is empty")
		}
		job = j
		s.progress(ctx, StepJobResolved)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, deadline(ctx, err)
	}

	scored, err := s.Scorer.ScoreResume(ctx, *job, resume.anonymized)
	if err != nil {
		return nil, deadline(ctx, err)
	}
	s.progress(ctx, StepScored)

	result := &Result{
		AnalysisResult: *scored.Value,
		Provider:       scored.Via,
		JobTitle:       job.Title,
		Extracted:      resume.extracted,
	}
	if id, ok := s.cache(ctx, req, resume, scored.Value); ok {
		result.ResumeID = id.String()
		s.progress(ctx, StepCached)
	}

	s.Logger.Info().
		Str("job_ref", req.Job.Ref()).
		Int("match_score", result.MatchScore).
		Str("provider", string(result.Provider)).
		Str("model", result.ModelUsed).
		Dur("elapsed", time.Since(start)).
		Msg("analysis complete")
	return result, nil
}

func (s *Service) loadResume(ctx context.Context, req Request) (*resumeText, error) {
	var parsed, fileName string
	if id, ok := req.cacheID(); ok {
		rec, err := s.cachedRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		parsed = rec.ParsedText
		if rec.FileName != nil {
			fileName = *rec.FileName
		}
	} else {
		doc, err := s.Extractor.Extract(ctx, req.Resume)
		if err != nil {
			return nil, err
		}
		parsed = doc.Text
		fileName = req.FileName
	}
	if strings.TrimSpace(parsed) == "" {
		return nil, apperr.New(apperr.KindExtraction, "the resume contains no readable text")
	}

	return &resumeText{
		parsed:     parsed,
		anonymized: anonymize.Text(parsed),
		extracted:  personal.Extract(parsed, fileName),
		fileName:   fileName,
	}, nil
}

func (s *Service) cachedRecord(ctx context.Context, id uuid.UUID) (*types.ResumeMetadata, error) {
	if s.Store == nil {
		return nil, apperr.New(apperr.KindConfiguration, "resume cache is not available")
	}
	rec, err := s.Store.GetMetadata(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to read resume cache")
	}
	if rec == nil {
		return nil, apperr.New(apperr.KindNotFound, "cached resume %s not found", id)
	}
	return rec, nil
}

func (s *Service) cache(ctx context.Context, req Request, resume *resumeText, scored *types.AnalysisResult) (uuid.UUID, bool) {
	if s.Store == nil {
		return uuid.Nil, false
	}
	u := db.MetadataUpsert{
		Extracted:  resume.extracted,
		ParsedText: resume.parsed,
		JobRef:     req.Job.Ref(),
		Score:      scored.MatchScore,
		Model:      scored.ModelUsed,
	}
	if req.UserID != "" {
		u.UserID = &req.UserID
	}
	if len(req.Resume) > 0 {
		size := int64(len(req.Resume))
		u.FileSize = &size
		if resume.fileName != "" {
			u.FileName = &resume.fileName
		}
	}

	id, err := s.Store.UpsertByEmail(ctx, u)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("failed to cache resume metadata")
		return uuid.Nil, false
	}
	return id, true
}

type progressKey struct{}

// WithProgress attaches a per-call progress callback to ctx. It runs in
// addition to Service.OnProgress.
func WithProgress(ctx context.Context, cb ProgressCallback) context.Context {
	return context.WithValue(ctx, progressKey{}, cb)
}

func (s *Service) progress(ctx context.Context, step Step) {
	if s.OnProgress != nil {
		s.OnProgress(step)
	}
	if cb, ok := ctx.Value(progressKey{}).(ProgressCallback); ok && cb != nil {
		cb(step)
	}
}

// deadline reports an expired pipeline deadline as an upstream failure,
// whatever stage noticed it.
func deadline(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !apperr.Is(err, apperr.KindUpstreamUnavailable) {
		return apperr.Wrap(apperr.KindUpstreamUnavailable, err, "the analysis took too long, please try again")
	}
	return err
}
