package builder

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/rendering"
)

// Export formats.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// Rendered is an exported document.
type Rendered struct {
	ContentType string
	Body        []byte
}

// Preview renders a project to HTML with its chosen template.
func (s *Service) Preview(ctx context.Context, projectID uuid.UUID) (string, error) {
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	tpl, ok := s.Templates.Get(p.TemplateSlug)
	if !ok {
		return "", apperr.New(apperr.KindValidation, "project template %q no longer exists", p.TemplateSlug)
	}
	html, err := rendering.RenderProject(tpl, p)
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, err, "project content cannot be rendered")
	}
	return html, nil
}

// Export renders a project as HTML or PDF.
func (s *Service) Export(ctx context.Context, projectID uuid.UUID, format string) (*Rendered, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatHTML && format != FormatPDF {
		return nil, apperr.New(apperr.KindValidation, "unsupported export format %q", format)
	}

	html, err := s.Preview(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if format == FormatHTML {
		return &Rendered{ContentType: "text/html; charset=utf-8", Body: []byte(html)}, nil
	}

	if s.PDF == nil {
		return nil, apperr.New(apperr.KindConfiguration, "PDF export is not available")
	}
	pdf, err := s.PDF.Export(ctx, html)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, err, "PDF export failed, please try again")
	}
	return &Rendered{ContentType: "application/pdf", Body: pdf}, nil
}

// TemplatePreview renders a template with the sample resume.
func (s *Service) TemplatePreview(slug string) (string, error) {
	tpl, ok := s.Templates.Get(slug)
	if !ok {
		return "", apperr.New(apperr.KindNotFound, "template %q not found", slug)
	}
	html, err := rendering.RenderPreview(tpl)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, err, "failed to render template preview")
	}
	return html, nil
}

// ListTemplates returns the template gallery.
func (s *Service) ListTemplates() []rendering.Summary {
	return s.Templates.List()
}
