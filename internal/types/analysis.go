// Package types holds the structured data shared by the analysis pipeline,
// the resume builder and their stores.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// JobContent is the job a resume is compared against.
type JobContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// JobListing is a row of the job-listing store.
type JobListing struct {
	ID                     string   `json:"id"`
	Title                  string   `json:"title"`
	Company                string   `json:"company,omitempty"`
	Description            string   `json:"description"`
	Responsibilities       []string `json:"responsibilities,omitempty"`
	RequiredEducation      string   `json:"required_education,omitempty"`
	RequiredCertifications []string `json:"required_certifications,omitempty"`
	ExperienceMinYears     *int     `json:"experience_min_years,omitempty"`
	ExperienceMaxYears     *int     `json:"experience_max_years,omitempty"`
	Location               string   `json:"location,omitempty"`
}

// AnalysisResult is the scored comparison of a resume against a job.
type AnalysisResult struct {
	MatchScore        int      `json:"matchScore"`
	MissingKeywords   []string `json:"missingKeywords"`
	Strengths         []string `json:"strengths"`
	Tips              []string `json:"tips"`
	OverallAssessment string   `json:"overallAssessment"`
	ModelUsed         string   `json:"modelUsed"`
}

// ATSCheck is the keyword screen of a builder project against a job.
type ATSCheck struct {
	Score           int      `json:"score"`
	MissingKeywords []string `json:"missingKeywords"`
	Tips            []string `json:"tips"`
	ModelUsed       string   `json:"modelUsed"`
}

// ResumeMetadata is the cache record kept per extracted email.
type ResumeMetadata struct {
	ID            uuid.UUID `json:"id"`
	UserID        *string   `json:"userId,omitempty"`
	FileName      *string   `json:"fileName,omitempty"`
	FileSize      *int64    `json:"fileSize,omitempty"`
	FullName      *string   `json:"fullName,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Mobile        *string   `json:"mobile,omitempty"`
	LinkedIn      *string   `json:"linkedIn,omitempty"`
	GitHub        *string   `json:"github,omitempty"`
	Portfolio     *string   `json:"portfolio,omitempty"`
	DateOfBirth   *string   `json:"dateOfBirth,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Skills        *string   `json:"skills,omitempty"`
	ParsedText    string    `json:"parsedText"`
	LastJobRef    *string   `json:"lastJobRef,omitempty"`
	LastScore     *int      `json:"lastScore,omitempty"`
	AnalysisCount int       `json:"analysisCount"`
	ModelUsed     *string   `json:"modelUsed,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
