package builder

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// AutoFill copies what is known about the project owner into a project. The
// user profile is applied first, then the latest analyzed resume fills the
// personal-info fields and skills the profile left empty. Empty personal-info
// fields and an empty summary are filled; a section is added for each list
// whose type the project does not have yet. Existing content is never
// overwritten.
func (s *Service) AutoFill(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	if s.Profiles == nil && s.Resumes == nil {
		return nil, apperr.New(apperr.KindConfiguration, "user profiles are not available")
	}
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var profile *types.UserProfile
	if s.Profiles != nil {
		profile, err = s.Profiles.GetProfile(ctx, p.UserID)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, err, "failed to load user profile")
		}
	}
	var resume *types.ResumeMetadata
	if s.Resumes != nil {
		resume, err = s.Resumes.LatestMetadataForUser(ctx, p.UserID)
		if err != nil {
			// Resume metadata is a cache; auto-fill proceeds without it.
			s.Logger.Warn().Err(err).Str("user_id", p.UserID).Msg("failed to load resume metadata for auto-fill")
			resume = nil
		}
	}
	if profile == nil && resume == nil {
		return nil, apperr.New(apperr.KindNotFound, "no profile or analyzed resume found for user %s", p.UserID)
	}

	var sections []types.Section
	if profile != nil {
		fillPersonalInfo(&p.PersonalInfo, profile.PersonalInfo)
		if p.Summary == "" {
			p.Summary = profile.Summary
		}
		sections = profileSections(profile)
	}
	if resume != nil {
		fillPersonalInfo(&p.PersonalInfo, resumePersonalInfo(resume))
		if sec, ok := resumeSkillsSection(resume); ok && !hasType(sections, types.SectionSkills) {
			sections = append(sections, sec)
		}
	}
	if err := s.Projects.UpdateProject(ctx, p); err != nil {
		return nil, storeErr(err, "failed to update project")
	}

	added := 0
	for _, sec := range sections {
		if hasType(p.Sections, sec.Type) {
			continue
		}
		sec.ProjectID = p.ID
		if err := s.Projects.CreateSection(ctx, &sec); err != nil {
			return nil, storeErr(err, "failed to add section")
		}
		added++
	}

	s.Logger.Info().
		Str("project_id", p.ID.String()).
		Bool("from_profile", profile != nil).
		Bool("from_resume", resume != nil).
		Int("sections_added", added).
		Msg("project auto-filled")
	return s.GetProject(ctx, projectID)
}

func hasType(sections []types.Section, t types.SectionType) bool {
	for _, sec := range sections {
		if sec.Type == t {
			return true
		}
	}
	return false
}

func fillPersonalInfo(dst *types.PersonalInfo, src types.PersonalInfo) {
	fill := func(d *string, v string) {
		if *d == "" {
			*d = v
		}
	}
	fill(&dst.FullName, src.FullName)
	fill(&dst.Headline, src.Headline)
	fill(&dst.Email, src.Email)
	fill(&dst.Phone, src.Phone)
	fill(&dst.Location, src.Location)
	fill(&dst.LinkedIn, src.LinkedIn)
	fill(&dst.GitHub, src.GitHub)
	fill(&dst.Portfolio, src.Portfolio)
}

// resumePersonalInfo maps cached resume fields to a header. Only the first of
// the extracted phone numbers is used.
func resumePersonalInfo(m *types.ResumeMetadata) types.PersonalInfo {
	val := func(v *string) string {
		if v == nil {
			return ""
		}
		return strings.TrimSpace(*v)
	}
	phone, _, _ := strings.Cut(val(m.Mobile), ",")
	return types.PersonalInfo{
		FullName:  val(m.FullName),
		Email:     val(m.Email),
		Phone:     strings.TrimSpace(phone),
		LinkedIn:  val(m.LinkedIn),
		GitHub:    val(m.GitHub),
		Portfolio: val(m.Portfolio),
	}
}

func resumeSkillsSection(m *types.ResumeMetadata) (types.Section, bool) {
	if m.Skills == nil {
		return types.Section{}, false
	}
	var skills []string
	for _, sk := range strings.Split(*m.Skills, ",") {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	if len(skills) == 0 {
		return types.Section{}, false
	}
	groups := []types.SkillGroup{{Skills: skills}}
	return types.Section{Type: types.SectionSkills, Title: "Skills", Visible: true, Items: marshalItems(groups)}, true
}

// profileSections maps the non-empty profile lists to sections.
func profileSections(p *types.UserProfile) []types.Section {
	var out []types.Section
	if len(p.WorkHistory) > 0 {
		out = append(out, types.Section{Type: types.SectionExperience, Title: "Experience", Visible: true, Items: marshalItems(p.WorkHistory)})
	}
	if len(p.Education) > 0 {
		out = append(out, types.Section{Type: types.SectionEducation, Title: "Education", Visible: true, Items: marshalItems(p.Education)})
	}
	if len(p.Skills) > 0 {
		groups := []types.SkillGroup{{Skills: p.Skills}}
		out = append(out, types.Section{Type: types.SectionSkills, Title: "Skills", Visible: true, Items: marshalItems(groups)})
	}
	if len(p.Certifications) > 0 {
		out = append(out, types.Section{Type: types.SectionCertifications, Title: "Certifications", Visible: true, Items: marshalItems(p.Certifications)})
	}
	return out
}
