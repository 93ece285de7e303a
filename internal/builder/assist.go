package builder

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/jobsource"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// SummaryResult is a generated summary. It is not saved; the caller decides
// whether to apply it with UpdateProject.
type SummaryResult struct {
	Summary   string  `json:"summary"`
	Provider  llm.Via `json:"provider"`
	ModelUsed string  `json:"modelUsed"`
}

// BulletsResult holds rewritten bullets in input order.
type BulletsResult struct {
	Bullets   []string `json:"bullets"`
	Provider  llm.Via  `json:"provider"`
	ModelUsed string   `json:"modelUsed"`
}

// GenerateSummary drafts a summary from the project's compiled text.
func (s *Service) GenerateSummary(ctx context.Context, projectID uuid.UUID) (*SummaryResult, error) {
	if s.Assistant == nil {
		return nil, apperr.New(apperr.KindConfiguration, "no model provider is configured")
	}
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	content := CompileText(p)
	if content == "" {
		return nil, apperr.New(apperr.KindValidation, "add some resume content before generating a summary")
	}
	out, err := s.Assistant.GenerateSummary(ctx, p.PersonalInfo.FullName, p.PersonalInfo.Headline, content)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Summary: out.Value, Provider: out.Via, ModelUsed: out.Model}, nil
}

// RewriteBullets rewrites bullet points independently of any project.
func (s *Service) RewriteBullets(ctx context.Context, req types.BulletsRequest) (*BulletsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid bullets request")
	}
	if s.Assistant == nil {
		return nil, apperr.New(apperr.KindConfiguration, "no model provider is configured")
	}
	out, err := s.Assistant.RewriteBullets(ctx, req.Role, req.Bullets)
	if err != nil {
		return nil, err
	}
	return &BulletsResult{Bullets: out.Value, Provider: out.Via, ModelUsed: out.Model}, nil
}

// CheckATS screens the project's compiled text against a job.
func (s *Service) CheckATS(ctx context.Context, projectID uuid.UUID, job jobsource.Request) (*types.ATSCheck, error) {
	if s.Assistant == nil {
		return nil, apperr.New(apperr.KindConfiguration, "no model provider is configured")
	}
	if s.Jobs == nil {
		return nil, apperr.New(apperr.KindConfiguration, "job resolution is not available")
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	content, err := s.Jobs.Resolve(ctx, job)
	if err != nil {
		return nil, err
	}
	return s.Assistant.CheckATS(ctx, *content, CompileText(p))
}
