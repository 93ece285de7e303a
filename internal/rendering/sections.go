package rendering

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

type sectionRenderer func(items json.RawMessage) (string, error)

var sectionRenderers = map[types.SectionType]sectionRenderer{
	types.SectionExperience:     renderExperience,
	types.SectionEducation:      renderEducation,
	types.SectionSkills:         renderSkills,
	types.SectionProjects:       renderProjects,
	types.SectionCertifications: renderCertifications,
	types.SectionLanguages:      renderCustom,
	types.SectionCustom:         renderCustom,
}

func renderSection(s types.Section) (string, error) {
	render, ok := sectionRenderers[s.Type]
	if !ok {
		render = renderCustom
	}
	body, err := render(s.Items)
	if err != nil {
		return "", &RenderError{Stage: fmt.Sprintf("section %q", s.Title), Err: err}
	}
	return fmt.Sprintf(`<section class="section section-%s"><h2>%s</h2>%s</section>`,
		esc(string(s.Type)), esc(s.Title), body), nil
}

// ValidateItems checks that items decode into the item shape of t.
func ValidateItems(t types.SectionType, items json.RawMessage) error {
	_, err := renderSection(types.Section{Type: t, Items: items})
	return err
}

func decodeItems[T any](items json.RawMessage) ([]T, error) {
	var out []T
	if len(items) == 0 || string(items) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func dateRange(start, end string, current bool) string {
	if current {
		end = "Present"
	}
	if start == "" || end == "" {
		return esc(start + end)
	}
	return esc(start) + " &ndash; " + esc(end)
}

func bulletList(bullets []string) string {
	var b strings.Builder
	for _, item := range bullets {
		if strings.TrimSpace(item) != "" {
			b.WriteString("<li>" + esc(item) + "</li>")
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "<ul>" + b.String() + "</ul>"
}

func entry(title, date, sub, body string) string {
	var b strings.Builder
	b.WriteString(`<div class="entry"><div class="entry-head"><span class="entry-title">`)
	b.WriteString(title)
	b.WriteString(`</span>`)
	if date != "" {
		b.WriteString(`<span class="entry-date">` + date + `</span>`)
	}
	b.WriteString(`</div>`)
	if sub != "" {
		b.WriteString(`<div class="entry-sub">` + sub + `</div>`)
	}
	b.WriteString(body)
	b.WriteString(`</div>`)
	return b.String()
}

func renderExperience(items json.RawMessage) (string, error) {
	list, err := decodeItems[types.ExperienceItem](items)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, it := range list {
		b.WriteString(entry(
			esc(it.Role),
			dateRange(it.StartDate, it.EndDate, it.Current),
			joinNonEmpty(" · ", esc(it.Company), esc(it.Location)),
			bulletList(it.Bullets),
		))
	}
	return b.String(), nil
}

func renderEducation(items json.RawMessage) (string, error) {
	list, err := decodeItems[types.EducationItem](items)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, it := range list {
		degree := joinNonEmpty(", ", esc(it.Degree), esc(it.Field))
		b.WriteString(entry(
			esc(it.Institution),
			dateRange(it.StartDate, it.EndDate, false),
			joinNonEmpty(" · ", degree, esc(it.Grade)),
			"",
		))
	}
	return b.String(), nil
}

func renderSkills(items json.RawMessage) (string, error) {
	list, err := decodeItems[types.SkillGroup](items)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(`<ul class="skills">`)
	for _, g := range list {
		skills := make([]string, 0, len(g.Skills))
		for _, s := range g.Skills {
			skills = append(skills, esc(s))
		}
		line := joinNonEmpty(", ", skills...)
		if line == "" {
			continue
		}
		if g.Category != "" {
			line = `<strong>` + esc(g.Category) + `:</strong> ` + line
		}
		b.WriteString("<li>" + line + "</li>")
	}
	b.WriteString(`</ul>`)
	return b.String(), nil
}

func renderProjects(items json.RawMessage) (string, error) {
	list, err := decodeItems[types.ProjectItem](items)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, it := range list {
		tech := make([]string, 0, len(it.Technologies))
		for _, t := range it.Technologies {
			tech = append(tech, esc(t))
		}
		body := ""
		if it.Description != "" {
			body = "<p>" + esc(it.Description) + "</p>"
		}
		b.WriteString(entry(
			esc(it.Name),
			anchor(it.URL),
			joinNonEmpty(", ", tech...),
			body+bulletList(it.Bullets),
		))
	}
	return b.String(), nil
}

func renderCertifications(items json.RawMessage) (string, error) {
	list, err := decodeItems[types.CertificationItem](items)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, it := range list {
		name := esc(it.Name)
		if u := href(it.URL); u != "" {
			name = `<a href="` + esc(u) + `">` + name + `</a>`
		}
		b.WriteString(entry(name, esc(it.Date), esc(it.Issuer), ""))
	}
	return b.String(), nil
}

func renderCustom(items json.RawMessage) (string, error) {
	list, err := decodeItems[types.CustomItem](items)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, it := range list {
		body := ""
		if it.Description != "" {
			body = "<p>" + esc(it.Description) + "</p>"
		}
		b.WriteString(entry(esc(it.Heading), esc(it.Date), esc(it.Subheading), body+bulletList(it.Bullets)))
	}
	return b.String(), nil
}
