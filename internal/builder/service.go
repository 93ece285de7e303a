// Package builder manages resume projects: section CRUD, auto-fill from the
// user profile, AI assistance and rendering to HTML or PDF.
package builder

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/jobsource"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// ProjectStore persists projects and their sections.
type ProjectStore interface {
	CreateProject(ctx context.Context, p *types.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error)
	UpdateProject(ctx context.Context, p *types.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreateSection(ctx context.Context, s *types.Section) error
	GetSection(ctx context.Context, id uuid.UUID) (*types.Section, error)
	UpdateSection(ctx context.Context, s *types.Section) error
	DeleteSection(ctx context.Context, id uuid.UUID) error
	ReorderSections(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error
}

// ProfileStore is the read-only user-profile collaborator.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*types.UserProfile, error)
}

// ResumeSource reads the unredacted details cached from a user's analyzed resumes.
type ResumeSource interface {
	LatestMetadataForUser(ctx context.Context, userID string) (*types.ResumeMetadata, error)
}

// Assistant runs the model-backed writing aids.
type Assistant interface {
	GenerateSummary(ctx context.Context, name, headline, content string) (llm.Tagged[string], error)
	RewriteBullets(ctx context.Context, role string, bullets []string) (llm.Tagged[[]string], error)
	CheckATS(ctx context.Context, job types.JobContent, resume string) (*types.ATSCheck, error)
}

// JobResolver turns a job source into job content.
type JobResolver interface {
	Resolve(ctx context.Context, req jobsource.Request) (*types.JobContent, error)
}

// PDFExporter prints HTML to PDF.
type PDFExporter interface {
	Export(ctx context.Context, html string) ([]byte, error)
}

// Service implements the builder operations.
type Service struct {
	Projects  ProjectStore
	Profiles  ProfileStore
	Resumes   ResumeSource
	Assistant Assistant
	Jobs      JobResolver
	Templates *rendering.Registry
	PDF       PDFExporter
	Logger    zerolog.Logger
}

// NewService creates a builder service. Profiles, Resumes, Assistant, Jobs and
// PDF may be nil; the operations that need them then fail with a configuration error.
func NewService(projects ProjectStore, templates *rendering.Registry) *Service {
	return &Service{
		Projects:  projects,
		Templates: templates,
		Logger:    logging.Component("builder"),
	}
}

// CreateProject creates an empty project.
func (s *Service) CreateProject(ctx context.Context, req types.CreateProjectRequest) (*types.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid project")
	}
	slug, err := s.templateSlug(req.TemplateSlug)
	if err != nil {
		return nil, err
	}
	p := &types.Project{
		UserID:       req.UserID,
		Title:        req.Title,
		TemplateSlug: slug,
		Sections:     []types.Section{},
	}
	if req.PersonalInfo != nil {
		p.PersonalInfo = *req.PersonalInfo
	}
	if err := s.Projects.CreateProject(ctx, p); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to create project")
	}
	s.Logger.Info().Str("project_id", p.ID.String()).Str("template", slug).Msg("project created")
	return p, nil
}

// GetProject returns a project with its sections.
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	p, err := s.Projects.GetProject(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to load project")
	}
	if p == nil {
		return nil, apperr.New(apperr.KindNotFound, "project %s not found", id)
	}
	return p, nil
}

// UpdateProject applies the non-nil fields of req. A style override replaces
// the stored override as a whole.
func (s *Service) UpdateProject(ctx context.Context, id uuid.UUID, req types.UpdateProjectRequest) (*types.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid project update")
	}
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.PersonalInfo != nil {
		p.PersonalInfo = *req.PersonalInfo
	}
	if req.Summary != nil {
		p.Summary = *req.Summary
	}
	if req.TemplateSlug != nil {
		if p.TemplateSlug, err = s.templateSlug(*req.TemplateSlug); err != nil {
			return nil, err
		}
	}
	if req.StyleOverride != nil {
		p.StyleOverride = req.StyleOverride
	}
	if err := s.Projects.UpdateProject(ctx, p); err != nil {
		return nil, storeErr(err, "failed to update project")
	}
	return p, nil
}

// DeleteProject removes a project and its sections.
func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.Projects.DeleteProject(ctx, id), "failed to delete project")
}

// AddSection appends a section to a project.
func (s *Service) AddSection(ctx context.Context, projectID uuid.UUID, req types.SectionRequest) (*types.Section, error) {
	if err := validateSection(req); err != nil {
		return nil, err
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	sec := &types.Section{
		ProjectID: projectID,
		Type:      req.Type,
		Title:     req.Title,
		Visible:   req.Visible == nil || *req.Visible,
		Items:     req.Items,
	}
	if err := s.Projects.CreateSection(ctx, sec); err != nil {
		return nil, storeErr(err, "failed to add section")
	}
	return sec, nil
}

// UpdateSection replaces the content of a section. A nil Visible keeps the
// current visibility.
func (s *Service) UpdateSection(ctx context.Context, id uuid.UUID, req types.SectionRequest) (*types.Section, error) {
	if err := validateSection(req); err != nil {
		return nil, err
	}
	sec, err := s.Projects.GetSection(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to load section")
	}
	if sec == nil {
		return nil, apperr.New(apperr.KindNotFound, "section %s not found", id)
	}
	sec.Type = req.Type
	sec.Title = req.Title
	sec.Items = req.Items
	if req.Visible != nil {
		sec.Visible = *req.Visible
	}
	if err := s.Projects.UpdateSection(ctx, sec); err != nil {
		return nil, storeErr(err, "failed to update section")
	}
	return sec, nil
}

// DeleteSection removes a section.
func (s *Service) DeleteSection(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.Projects.DeleteSection(ctx, id), "failed to delete section")
}

// ReorderSections sets the section order of a project.
func (s *Service) ReorderSections(ctx context.Context, projectID uuid.UUID, req types.ReorderRequest) (*types.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid reorder request")
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.Projects.ReorderSections(ctx, projectID, req.SectionIDs); err != nil {
		return nil, storeErr(err, "failed to reorder sections")
	}
	return s.GetProject(ctx, projectID)
}

func validateSection(req types.SectionRequest) error {
	if err := req.Validate(); err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "invalid section")
	}
	if err := rendering.ValidateItems(req.Type, req.Items); err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "section items do not match the %s item shape", req.Type)
	}
	return nil
}

// templateSlug resolves slug against the registry; "" means the default.
func (s *Service) templateSlug(slug string) (string, error) {
	if slug == "" {
		slug = rendering.DefaultSlug
	}
	if _, ok := s.Templates.Get(slug); !ok {
		return "", apperr.New(apperr.KindValidation, "unknown template %q", slug)
	}
	return slug, nil
}

// storeErr keeps taxonomy errors from the store and wraps anything else.
func storeErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if k := apperr.KindOf(err); k != apperr.KindInternal {
		return err
	}
	return apperr.Wrap(apperr.KindInternal, err, "%s", msg)
}

func marshalItems[T any](items []T) json.RawMessage {
	raw, err := json.Marshal(items)
	if err != nil {
		return json.RawMessage("[]")
	}
	return raw
}
