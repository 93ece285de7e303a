// Package observability renders human-readable summaries for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/personal"
)

const (
	boxWidth       = 64
	maxItemsToShow = 8
)

// Printer writes boxed summaries to out.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // terminal output; nothing to recover
func (p *Printer) printBox(title string, lines []string) {
	border := strings.Repeat("─", boxWidth-2)
	inner := boxWidth - 4
	fmt.Fprintf(p.out, "┌%s┐\n│ %-*s │\n├%s┤\n", border, inner, title, border)
	for _, line := range lines {
		for _, part := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %-*s │\n", inner, part)
		}
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis summarizes an analysis result.
func (p *Printer) PrintAnalysis(res *analysis.Result) {
	if res == nil {
		return
	}
	lines := []string{
		fmt.Sprintf("Match score: %d/100  %s", res.MatchScore, scoreBar(res.MatchScore)),
		fmt.Sprintf("Model:       %s (%s)", res.ModelUsed, res.Provider),
	}
	if res.JobTitle != "" {
		lines = append(lines, "Job:         "+res.JobTitle)
	}
	if res.OverallAssessment != "" {
		lines = append(lines, "", res.OverallAssessment)
	}
	lines = appendList(lines, "Strengths", res.Strengths)
	lines = appendList(lines, "Missing keywords", res.MissingKeywords)
	lines = appendList(lines, "Tips", res.Tips)
	if res.ResumeID != "" {
		lines = append(lines, "", "Resume cache id: "+res.ResumeID)
	}
	p.printBox("Resume analysis", lines)
}

// PrintPersonal lists the personal details found in a resume. Missing
// fields are shown as "-".
func (p *Printer) PrintPersonal(d personal.Data) {
	field := func(label string, v *string) string {
		s := "-"
		if v != nil && *v != "" {
			s = *v
		}
		return fmt.Sprintf("%-13s %s", label+":", s)
	}
	p.printBox("Personal details", []string{
		field("Name", d.FullName),
		field("Email", d.Email),
		field("Mobile", d.Mobile),
		field("LinkedIn", d.LinkedIn),
		field("GitHub", d.GitHub),
		field("Portfolio", d.Portfolio),
		field("Date of birth", d.DateOfBirth),
		field("Address", d.Address),
		field("Skills", d.Skills),
	})
}

func appendList(lines []string, title string, items []string) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, "", title+":")
	count := min(len(items), maxItemsToShow)
	for _, it := range items[:count] {
		lines = append(lines, "  • "+it)
	}
	if len(items) > maxItemsToShow {
		lines = append(lines, fmt.Sprintf("  ... and %d more", len(items)-maxItemsToShow))
	}
	return lines
}

// scoreBar draws a 20-cell bar for a 0-100 score.
func scoreBar(score int) string {
	filled := max(0, min(score, 100)) / 5
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 20-filled) + "]"
}

// wrap splits s on spaces into lines of at most width runes. Words longer
// than width are cut.
func wrap(s string, width int) []string {
	if len([]rune(s)) <= width {
		return []string{s}
	}
	var out []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = nil
			}
			out = append(out, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			out = append(out, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}
