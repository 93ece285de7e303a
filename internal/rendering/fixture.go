package rendering

import (
	"encoding/json"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// PreviewDocument is the sample resume shown in template thumbnails.
func PreviewDocument() Document {
	return Document{
		PersonalInfo: types.PersonalInfo{
			FullName:  "Alex Morgan",
			Headline:  "Senior Software Engineer",
			Email:     "alex.morgan@example.com",
			Phone:     "+1 555 010 2030",
			Location:  "Austin, TX",
			LinkedIn:  "linkedin.com/in/alexmorgan",
			GitHub:    "github.com/alexmorgan",
			Portfolio: "alexmorgan.dev",
		},
		Summary: "Backend engineer with eight years of experience building payment and data platforms in Go and PostgreSQL. Leads small teams through design, delivery and on-call.",
		Sections: []types.Section{
			fixtureSection(types.SectionExperience, "Experience", 0, []types.ExperienceItem{
				{
					Company: "Northwind Payments", Role: "Senior Software Engineer", Location: "Remote",
					StartDate: "2021", Current: true,
					Bullets: []string{
						"Designed a ledger service processing 40M transactions a day with zero data loss",
						"Cut p99 checkout latency from 900ms to 180ms by redesigning the fraud-check pipeline",
					},
				},
				{
					Company: "Contoso Analytics", Role: "Software Engineer", Location: "Austin, TX",
					StartDate: "2017", EndDate: "2021",
					Bullets: []string{"Built the ingestion workers behind the customer reporting product"},
				},
			}),
			fixtureSection(types.SectionEducation, "Education", 1, []types.EducationItem{
				{Institution: "University of Texas at Austin", Degree: "B.S.", Field: "Computer Science", StartDate: "2013", EndDate: "2017"},
			}),
			fixtureSection(types.SectionSkills, "Skills", 2, []types.SkillGroup{
				{Category: "Languages", Skills: []string{"Go", "Python", "SQL"}},
				{Category: "Infrastructure", Skills: []string{"PostgreSQL", "Kubernetes", "AWS"}},
			}),
			fixtureSection(types.SectionProjects, "Projects", 3, []types.ProjectItem{
				{Name: "pgqueue", Description: "Open-source job queue on PostgreSQL advisory locks.", Technologies: []string{"Go", "PostgreSQL"}, URL: "github.com/alexmorgan/pgqueue"},
			}),
			fixtureSection(types.SectionCertifications, "Certifications", 4, []types.CertificationItem{
				{Name: "Certified Kubernetes Administrator", Issuer: "CNCF", Date: "2022"},
			}),
			fixtureSection(types.SectionLanguages, "Languages", 5, []types.CustomItem{
				{Heading: "English", Subheading: "Native"},
				{Heading: "Spanish", Subheading: "Professional"},
			}),
		},
	}
}

// RenderPreview renders t with the sample resume.
func RenderPreview(t *Template) (string, error) {
	return Render(t, PreviewDocument())
}

func fixtureSection[T any](typ types.SectionType, title string, order int, items []T) types.Section {
	raw, _ := json.Marshal(items)
	return types.Section{Type: typ, Title: title, Visible: true, SortOrder: order, Items: raw}
}
