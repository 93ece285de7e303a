package builder

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// CompileText flattens the visible content of a project into plain text, in
// render order. Items that do not decode are skipped.
func CompileText(p *types.Project) string {
	var b strings.Builder
	line := func(parts ...string) {
		if s := joinText(" | ", parts...); s != "" {
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}

	info := p.PersonalInfo
	line(info.FullName)
	line(info.Headline)
	if p.Summary != "" {
		b.WriteString("\nSUMMARY\n")
		line(p.Summary)
	}

	for _, sec := range rendering.VisibleSections(p.Sections) {
		b.WriteString("\n" + strings.ToUpper(sec.Title) + "\n")
		switch sec.Type {
		case types.SectionExperience:
			for _, it := range decode[types.ExperienceItem](sec.Items) {
				end := it.EndDate
				if it.Current {
					end = "Present"
				}
				line(it.Role, it.Company, it.Location, joinText(" - ", it.StartDate, end))
				bullets(&b, it.Bullets)
			}
		case types.SectionEducation:
			for _, it := range decode[types.EducationItem](sec.Items) {
				line(it.Institution, joinText(", ", it.Degree, it.Field), it.Grade, joinText(" - ", it.StartDate, it.EndDate))
			}
		case types.SectionSkills:
			for _, g := range decode[types.SkillGroup](sec.Items) {
				if g.Category != "" {
					line(g.Category + ": " + strings.Join(g.Skills, ", "))
				} else {
					line(strings.Join(g.Skills, ", "))
				}
			}
		case types.SectionProjects:
			for _, it := range decode[types.ProjectItem](sec.Items) {
				line(it.Name, strings.Join(it.Technologies, ", "))
				line(it.Description)
				bullets(&b, it.Bullets)
			}
		case types.SectionCertifications:
			for _, it := range decode[types.CertificationItem](sec.Items) {
				line(it.Name, it.Issuer, it.Date)
			}
		default:
			for _, it := range decode[types.CustomItem](sec.Items) {
				line(it.Heading, it.Subheading, it.Date)
				line(it.Description)
				bullets(&b, it.Bullets)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func bullets(b *strings.Builder, items []string) {
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			b.WriteString("- " + it + "\n")
		}
	}
}

func joinText(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func decode[T any](raw json.RawMessage) []T {
	var out []T
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
