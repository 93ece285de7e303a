package types

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SectionType selects the sub-renderer and item shape of a section.
type SectionType string

const (
	SectionExperience     SectionType = "experience"
	SectionEducation      SectionType = "education"
	SectionSkills         SectionType = "skills"
	SectionProjects       SectionType = "projects"
	SectionCertifications SectionType = "certifications"
	SectionLanguages      SectionType = "languages"
	SectionCustom         SectionType = "custom"
)

// StyleConfig is a flat set of template style values such as layout,
// primaryColor or fontFamily. A project override is merged over the
// template defaults key by key.
type StyleConfig map[string]string

// LayoutTwoColumn is the layout value that moves skills-like sections into the sidebar.
const LayoutTwoColumn = "two-column"

// Merge returns a copy of c with every non-empty value of override applied.
func (c StyleConfig) Merge(override StyleConfig) StyleConfig {
	out := make(StyleConfig, len(c)+len(override))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range override {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// PersonalInfo is the header block of a built resume.
type PersonalInfo struct {
	FullName  string `json:"fullName"`
	Headline  string `json:"headline,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	LinkedIn  string `json:"linkedIn,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Project is a resume being built.
type Project struct {
	ID            uuid.UUID    `json:"id"`
	UserID        string       `json:"userId"`
	Title         string       `json:"title"`
	PersonalInfo  PersonalInfo `json:"personalInfo"`
	Summary       string       `json:"summary"`
	TemplateSlug  string       `json:"templateSlug"`
	StyleOverride StyleConfig  `json:"styleOverride,omitempty"`
	Sections      []Section    `json:"sections"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Section is an ordered block of a project. Items holds a JSON array whose
// element shape depends on Type.
type Section struct {
	ID        uuid.UUID       `json:"id"`
	ProjectID uuid.UUID       `json:"projectId"`
	Type      SectionType     `json:"type"`
	Title     string          `json:"title"`
	Visible   bool            `json:"visible"`
	SortOrder int             `json:"sortOrder"`
	Items     json.RawMessage `json:"items"`
}

// ExperienceItem is one position in an experience section.
type ExperienceItem struct {
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Current   bool     `json:"current,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
}

// EducationItem is one entry in an education section.
type EducationItem struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Grade       string `json:"grade,omitempty"`
}

// SkillGroup is a labelled group of skills. Category may be empty.
type SkillGroup struct {
	Category string   `json:"category,omitempty"`
	Skills   []string `json:"skills"`
}

// ProjectItem is one entry in a projects section.
type ProjectItem struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
}

// CertificationItem is one entry in a certifications section.
type CertificationItem struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty"`
}

// CustomItem is an entry of a custom or languages section.
type CustomItem struct {
	Heading     string   `json:"heading"`
	Subheading  string   `json:"subheading,omitempty"`
	Date        string   `json:"date,omitempty"`
	Description string   `json:"description,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
}

// UserProfile is what the user-profile store knows about a user.
type UserProfile struct {
	UserID         string              `json:"userId"`
	PersonalInfo   PersonalInfo        `json:"personalInfo"`
	Summary        string              `json:"summary,omitempty"`
	WorkHistory    []ExperienceItem    `json:"workHistory,omitempty"`
	Education      []EducationItem     `json:"education,omitempty"`
	Skills         []string            `json:"skills,omitempty"`
	Certifications []CertificationItem `json:"certifications,omitempty"`
}

// CreateProjectRequest creates a project.
type CreateProjectRequest struct {
	UserID       string        `json:"userId" validate:"required"`
	Title        string        `json:"title" validate:"required,max=200"`
	TemplateSlug string        `json:"templateSlug" validate:"omitempty,max=100"`
	PersonalInfo *PersonalInfo `json:"personalInfo,omitempty"`
}

// UpdateProjectRequest changes project-level fields. Nil fields are left alone.
type UpdateProjectRequest struct {
	Title         *string       `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	PersonalInfo  *PersonalInfo `json:"personalInfo,omitempty"`
	Summary       *string       `json:"summary,omitempty" validate:"omitempty,max=5000"`
	TemplateSlug  *string       `json:"templateSlug,omitempty" validate:"omitempty,min=1,max=100"`
	StyleOverride StyleConfig   `json:"styleOverride,omitempty"`
}

// SectionRequest adds or replaces a section.
type SectionRequest struct {
	Type    SectionType     `json:"type" validate:"required,oneof=experience education skills projects certifications languages custom"`
	Title   string          `json:"title" validate:"required,max=200"`
	Visible *bool           `json:"visible,omitempty"`
	Items   json.RawMessage `json:"items"`
}

// ReorderRequest lists section IDs in their new order.
type ReorderRequest struct {
	SectionIDs []uuid.UUID `json:"sectionIds" validate:"required,min=1"`
}

// BulletsRequest asks for bullet rewrites.
type BulletsRequest struct {
	Role    string   `json:"role,omitempty" validate:"max=200"`
	Bullets []string `json:"bullets" validate:"required,min=1,max=20,dive,required,max=1000"`
}

var validate = validator.New()

// Validate validates the request using the validator.
func (r *CreateProjectRequest) Validate() error { return validate.Struct(r) }

// Validate validates the request using the validator.
func (r *UpdateProjectRequest) Validate() error { return validate.Struct(r) }

// Validate validates the request using the validator.
func (r *SectionRequest) Validate() error { return validate.Struct(r) }

// Validate validates the request using the validator.
func (r *ReorderRequest) Validate() error { return validate.Struct(r) }

// Validate validates the request using the validator.
func (r *BulletsRequest) Validate() error { return validate.Struct(r) }
