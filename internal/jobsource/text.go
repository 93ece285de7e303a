package jobsource

import (
	"regexp"
	"strings"
)

var (
	spaceRun  = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalises line endings, collapses runs of spaces, strips
// trailing whitespace and keeps at most one blank line between blocks.
// Markdown headings and bullets keep their leading markers.
func CleanText(content string) string {
	if content == "" {
		return ""
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			lines[i] = ""
			continue
		}
		indent := ""
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			// nested bullets keep their depth
			indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		}
		lines[i] = indent + spaceRun.ReplaceAllString(trimmed, " ")
	}

	out := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}
