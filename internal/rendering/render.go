package rendering

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Skeleton placeholders.
const (
	PlaceholderCSS      = "{{css}}"
	PlaceholderName     = "{{name}}"
	PlaceholderHeadline = "{{headline}}"
	PlaceholderContact  = "{{contact}}"
	PlaceholderLinks    = "{{links}}"
	PlaceholderSummary  = "{{summary}}"
	PlaceholderMain     = "{{main}}"
	PlaceholderSidebar  = "{{sidebar}}"
)

// Document is everything a template is filled with.
type Document struct {
	PersonalInfo types.PersonalInfo
	Summary      string
	// Sections are rendered in slice order; callers pass visible sections only.
	Sections []types.Section
	Config   types.StyleConfig
}

// Render fills t with doc. Free text is escaped; the skeleton and CSS are
// used as-is. Substitution is a single pass, so placeholder-like text inside
// user content is never expanded.
func Render(t *Template, doc Document) (string, error) {
	cfg := t.DefaultConfig.Merge(doc.Config)

	var main, sidebar strings.Builder
	// A skeleton without a sidebar slot keeps every section in main.
	twoColumn := cfg["layout"] == types.LayoutTwoColumn && strings.Contains(t.HTML, PlaceholderSidebar)
	for _, s := range doc.Sections {
		block, err := renderSection(s)
		if err != nil {
			return "", err
		}
		if twoColumn && inSidebar(s.Type) {
			sidebar.WriteString(block)
		} else {
			main.WriteString(block)
		}
	}

	info := doc.PersonalInfo
	summary := ""
	if strings.TrimSpace(doc.Summary) != "" {
		summary = `<section class="summary"><p>` + esc(doc.Summary) + `</p></section>`
	}

	pairs := []string{
		PlaceholderCSS, "<style>" + fillConfig(t.CSS, cfg) + "</style>",
		PlaceholderName, esc(info.FullName),
		PlaceholderHeadline, esc(info.Headline),
		PlaceholderContact, joinNonEmpty(" | ", esc(info.Email), esc(info.Phone), esc(info.Location)),
		PlaceholderLinks, joinNonEmpty(" · ", anchor(info.LinkedIn), anchor(info.GitHub), anchor(info.Portfolio)),
		PlaceholderSummary, summary,
		PlaceholderMain, main.String(),
		PlaceholderSidebar, sidebar.String(),
	}
	pairs = append(pairs, configPairs(cfg)...)
	return strings.NewReplacer(pairs...).Replace(t.HTML), nil
}

// RenderProject renders the visible sections of p in sort order, with the
// project's style override merged over the template defaults.
func RenderProject(t *Template, p *types.Project) (string, error) {
	return Render(t, Document{
		PersonalInfo: p.PersonalInfo,
		Summary:      p.Summary,
		Sections:     VisibleSections(p.Sections),
		Config:       p.StyleOverride,
	})
}

// VisibleSections returns the visible sections ordered by SortOrder.
func VisibleSections(sections []types.Section) []types.Section {
	out := make([]types.Section, 0, len(sections))
	for _, s := range sections {
		if s.Visible {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func inSidebar(t types.SectionType) bool {
	return t == types.SectionSkills || t == types.SectionLanguages
}

// fillConfig replaces {{config.key}} in css. Values that could escape a CSS
// declaration are dropped.
func fillConfig(css string, cfg types.StyleConfig) string {
	return strings.NewReplacer(configPairs(cfg)...).Replace(css)
}

func configPairs(cfg types.StyleConfig) []string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		v := cfg[k]
		if !styleValue.MatchString(v) {
			v = ""
		}
		pairs = append(pairs, "{{config."+k+"}}", v)
	}
	return pairs
}
