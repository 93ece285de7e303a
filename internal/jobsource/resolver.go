// Package jobsource resolves the job description a resume is compared
// against. A request names exactly one source: a job-listing ID, a posting
// URL or pasted text.
package jobsource

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// JobStore reads job listings. A missing listing is (nil, nil).
type JobStore interface {
	GetJob(ctx context.Context, id string) (*types.JobListing, error)
}

// Request names the job source. Exactly one field must be set.
type Request struct {
	JobID   string `json:"job_id,omitempty"`
	JobURL  string `json:"job_url,omitempty"`
	JobText string `json:"job_text,omitempty"`
}

func (r Request) populated() int {
	n := 0
	for _, s := range []string{r.JobID, r.JobURL, r.JobText} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// Validate checks that exactly one source is set.
func (r Request) Validate() error {
	switch r.populated() {
	case 0:
		return apperr.New(apperr.KindValidation, "a job id, job URL or job description is required")
	case 1:
		return nil
	default:
		return apperr.New(apperr.KindValidation, "provide only one of job id, job URL or job description")
	}
}

// Ref identifies the source for the metadata record.
func (r Request) Ref() string {
	switch {
	case strings.TrimSpace(r.JobID) != "":
		return "job:" + strings.TrimSpace(r.JobID)
	case strings.TrimSpace(r.JobURL) != "":
		return strings.TrimSpace(r.JobURL)
	case strings.TrimSpace(r.JobText) != "":
		return "text"
	}
	return ""
}

// Resolver turns a Request into JobContent.
type Resolver struct {
	jobs   JobStore
	reader fetch.Reader
	logger zerolog.Logger
}

// NewResolver creates a resolver. Either collaborator may be nil, in which
// case the matching branch reports a configuration error.
func NewResolver(jobs JobStore, reader fetch.Reader) *Resolver {
	return &Resolver{jobs: jobs, reader: reader, logger: logging.Component("jobsource")}
}

// Resolve runs the branch selected by req.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*types.JobContent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	switch {
	case strings.TrimSpace(req.JobID) != "":
		return r.byID(ctx, strings.TrimSpace(req.JobID))
	case strings.TrimSpace(req.JobURL) != "":
		return r.byURL(ctx, strings.TrimSpace(req.JobURL))
	default:
		return &types.JobContent{Description: strings.TrimSpace(req.JobText)}, nil
	}
}

func (r *Resolver) byID(ctx context.Context, id string) (*types.JobContent, error) {
	if r.jobs == nil {
		return nil, apperr.New(apperr.KindConfiguration, "job store is not configured")
	}
	job, err := r.jobs.GetJob(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to load job %s", id)
	}
	if job == nil {
		return nil, apperr.New(apperr.KindNotFound, "job %s not found", id)
	}
	return &types.JobContent{Title: job.Title, Description: FormatListing(job)}, nil
}

func (r *Resolver) byURL(ctx context.Context, url string) (*types.JobContent, error) {
	if r.reader == nil {
		return nil, apperr.New(apperr.KindConfiguration, "no page reader is configured")
	}
	raw, err := r.reader.Read(ctx, url)
	if err != nil {
		return nil, err
	}

	content, err := ExtractPosting(raw)
	if err != nil {
		r.logger.Info().Str("url", url).Err(err).Msg("job page rejected")
		return nil, err
	}
	r.logger.Debug().
		Str("url", url).
		Str("title", content.Title).
		Int("chars", len(content.Description)).
		Msg("job page resolved")
	return content, nil
}

// FormatListing concatenates a listing into one description with labelled sub-sections.
func FormatListing(job *types.JobListing) string {
	var sb strings.Builder
	if job.Company != "" {
		fmt.Fprintf(&sb, "Company: %s\n\n", job.Company)
	}
	if d := strings.TrimSpace(job.Description); d != "" {
		sb.WriteString(d)
		sb.WriteString("\n\n")
	}
	if len(job.Responsibilities) > 0 {
		sb.WriteString("Responsibilities:\n")
		for _, r := range job.Responsibilities {
			sb.WriteString("- " + strings.TrimSpace(r) + "\n")
		}
		sb.WriteString("\n")
	}
	if job.RequiredEducation != "" {
		fmt.Fprintf(&sb, "Required Education: %s\n", job.RequiredEducation)
	}
	if len(job.RequiredCertifications) > 0 {
		fmt.Fprintf(&sb, "Required Certifications: %s\n", strings.Join(job.RequiredCertifications, ", "))
	}
	if exp := experienceRange(job.ExperienceMinYears, job.ExperienceMaxYears); exp != "" {
		fmt.Fprintf(&sb, "Experience: %s\n", exp)
	}
	if job.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", job.Location)
	}
	return strings.TrimSpace(sb.String())
}

func experienceRange(lo, hi *int) string {
	switch {
	case lo != nil && hi != nil:
		return fmt.Sprintf("%d-%d years", *lo, *hi)
	case lo != nil:
		return fmt.Sprintf("%d+ years", *lo)
	case hi != nil:
		return fmt.Sprintf("up to %d years", *hi)
	}
	return ""
}
