package analysis

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/jobsource"
	"github.com/jonathan/resume-analyzer/internal/pdftext"
)

// DefaultMaxResumeBytes is the largest resume document accepted.
const DefaultMaxResumeBytes = 10 << 20

// Request is one analysis. A resume comes either as PDF bytes or as the ID
// of a cached metadata record; when both are set the bytes win.
type Request struct {
	Resume        []byte            `json:"-"`
	ResumeCacheID string            `json:"resumeCacheId,omitempty" validate:"omitempty,uuid"`
	FileName      string            `json:"fileName,omitempty" validate:"max=255"`
	UserID        string            `json:"userId,omitempty" validate:"max=128"`
	Job           jobsource.Request `json:"job"`
}

var validate = validator.New()

// Validate checks the request shape. It does not parse the document.
func (r *Request) Validate(maxBytes int64) error {
	if err := validate.Struct(r); err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "invalid analysis request")
	}
	if len(r.Resume) == 0 && strings.TrimSpace(r.ResumeCacheID) == "" {
		return apperr.New(apperr.KindValidation, "a resume file or resume cache id is required")
	}
	if len(r.Resume) > 0 {
		if maxBytes > 0 && int64(len(r.Resume)) > maxBytes {
			return apperr.New(apperr.KindValidation, "resume file exceeds the %d MB limit", maxBytes>>20)
		}
		if !pdftext.LooksLikePDF(r.Resume) {
			return apperr.New(apperr.KindValidation, "resume must be a PDF document")
		}
	}
	return r.Job.Validate()
}

func (r *Request) cacheID() (uuid.UUID, bool) {
	if len(r.Resume) > 0 || r.ResumeCacheID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(r.ResumeCacheID)
	return id, err == nil
}
