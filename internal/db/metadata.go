package db

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/personal"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// MetadataUpsert is one completed analysis to record.
type MetadataUpsert struct {
	Extracted  personal.Data
	UserID     *string
	FileName   *string
	FileSize   *int64
	ParsedText string
	JobRef     string
	Score      int
	Model      string
}

// emailKey is the dedup key of an upsert, or "" when no email was extracted.
func (u MetadataUpsert) emailKey() string {
	if u.Extracted.Email == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*u.Extracted.Email))
}

// newRecord builds the first record for an upsert.
func newRecord(u MetadataUpsert, now time.Time) *types.ResumeMetadata {
	rec := &types.ResumeMetadata{
		ID:        uuid.New(),
		CreatedAt: now,
	}
	return mergeRecord(rec, u, now)
}

// mergeRecord applies u to rec. Extracted fields overwrite only when the new
// value is present; parsed text, job reference, score and model always
// overwrite, and the analysis count goes up by one.
func mergeRecord(rec *types.ResumeMetadata, u MetadataUpsert, now time.Time) *types.ResumeMetadata {
	d := u.Extracted
	keep(&rec.UserID, u.UserID)
	keep(&rec.FileName, u.FileName)
	if u.FileSize != nil {
		size := *u.FileSize
		rec.FileSize = &size
	}
	keep(&rec.FullName, d.FullName)
	keep(&rec.Email, d.Email)
	keep(&rec.Mobile, d.Mobile)
	keep(&rec.LinkedIn, d.LinkedIn)
	keep(&rec.GitHub, d.GitHub)
	keep(&rec.Portfolio, d.Portfolio)
	keep(&rec.DateOfBirth, d.DateOfBirth)
	keep(&rec.Address, d.Address)
	keep(&rec.Skills, d.Skills)

	rec.ParsedText = u.ParsedText
	score := u.Score
	rec.LastScore = &score
	rec.LastJobRef = optional(u.JobRef)
	rec.ModelUsed = optional(u.Model)
	rec.AnalysisCount++
	rec.UpdatedAt = now
	return rec
}

// keep stores a copy of v in dst when v is present. The record never
// shares a pointer with the caller.
func keep(dst **string, v *string) {
	if v != nil && *v != "" {
		c := *v
		*dst = &c
	}
}

// cloneMetadata returns a copy of rec with every pointer field duplicated.
func cloneMetadata(rec *types.ResumeMetadata) *types.ResumeMetadata {
	cp := *rec
	for _, f := range []**string{
		&cp.UserID, &cp.FileName, &cp.FullName, &cp.Email, &cp.Mobile, &cp.LinkedIn,
		&cp.GitHub, &cp.Portfolio, &cp.DateOfBirth, &cp.Address, &cp.Skills,
		&cp.LastJobRef, &cp.ModelUsed,
	} {
		if *f != nil {
			v := **f
			*f = &v
		}
	}
	if cp.FileSize != nil {
		v := *cp.FileSize
		cp.FileSize = &v
	}
	if cp.LastScore != nil {
		v := *cp.LastScore
		cp.LastScore = &v
	}
	return &cp
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
