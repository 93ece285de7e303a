package jobsource

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// MaxDescriptionChars bounds the description sent to a model.
	MaxDescriptionChars = 8000
	// MaxSymbolRatio is the share of markup-like characters above which a page is rejected.
	MaxSymbolRatio = 0.15
	// MinVocabularyHits is how many job words a real posting contains at least.
	MinVocabularyHits = 3

	markerBackup   = 300
	boilerplateMin = 200
)

var (
	underlineRule = regexp.MustCompile(`^\s*(?:={3,}|-{3,})\s*$`)
	readerTitle   = regexp.MustCompile(`(?m)^Title:\s*(.+)$`)
	roleWord      = regexp.MustCompile(`(?i)\b(?:engineer|developer|manager|designer|analyst|scientist|lead|intern|architect|specialist|consultant|director|administrator|officer|associate|coordinator|programmer|technician|sre|devops)\b`)
	sectionMarker = regexp.MustCompile(`(?i)about (?:the|this) (?:role|job|position|opportunity)|job description|role overview|position summary|what you(?:'ll| will) do|the role`)
	boilerplate   = regexp.MustCompile(`(?i)privacy (?:policy|notice)|terms (?:of|and) (?:use|service|conditions)|cookie (?:policy|settings|preferences)|all rights reserved|©|copyright \d{4}|follow us on|share this (?:job|role|posting)|powered by|equal opportunity employer`)
	jobVocabulary = regexp.MustCompile(`(?i)\b(experience|qualification|responsibilit|skill|requirement|salary|benefit|team|role|position)`)
)

// ExtractPosting isolates the posting inside a page rendering, trims
// trailing boilerplate, bounds its length and rejects text that does not
// read like a job description.
func ExtractPosting(raw string) (*types.JobContent, error) {
	text := CleanText(raw)
	title, region := IsolateRegion(text)
	region = TrimBoilerplate(region)
	region = Truncate(region, MaxDescriptionChars)

	if err := SanityCheck(region); err != nil {
		return nil, err
	}
	if title == "" {
		if m := readerTitle.FindStringSubmatch(text); m != nil {
			title = strings.TrimSpace(m[1])
		}
	}
	return &types.JobContent{Title: title, Description: region}, nil
}

// IsolateRegion finds where the posting starts. A role-title line followed by
// an underline rule wins; otherwise a section marker such as "About the Role"
// is located and the region starts about 300 characters earlier so the
// heading above it is kept. With neither, the whole text is returned.
func IsolateRegion(text string) (title, region string) {
	lines := strings.Split(text, "\n")
	offset := 0
	for i := 0; i+1 < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line != "" && len(line) <= 120 && roleWord.MatchString(line) && underlineRule.MatchString(lines[i+1]) {
			return strings.TrimLeft(line, "# "), strings.TrimSpace(text[offset:])
		}
		offset += len(lines[i]) + 1
	}

	if loc := sectionMarker.FindStringIndex(text); loc != nil {
		start := loc[0] - markerBackup
		if start <= 0 {
			return "", text
		}
		if nl := strings.LastIndexByte(text[:start], '\n'); nl >= 0 {
			start = nl + 1
		} else {
			start = 0
		}
		return "", strings.TrimSpace(text[start:])
	}
	return "", text
}

// TrimBoilerplate cuts text at the first privacy, legal or social marker.
// Markers in the first 200 characters are ignored since they come from
// navigation rather than the page footer.
func TrimBoilerplate(text string) string {
	for _, loc := range boilerplate.FindAllStringIndex(text, -1) {
		if loc[0] < boilerplateMin {
			continue
		}
		cut := loc[0]
		if nl := strings.LastIndexByte(text[:cut], '\n'); nl >= boilerplateMin {
			cut = nl
		}
		return strings.TrimSpace(text[:cut])
	}
	return text
}

// Truncate bounds text to limit bytes, preferring a line or word boundary
// near the limit and never splitting a rune.
func Truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if i := strings.LastIndexAny(text[:cut], "\n "); i > 0 && i > limit-200 {
		cut = i
	}
	return strings.TrimSpace(text[:cut])
}

// SymbolRatio is the share of non-space characters that are markup or
// structural symbols rather than prose.
func SymbolRatio(text string) float64 {
	var symbols, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isMarkupSymbol(r) {
			symbols++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(symbols) / float64(total)
}

func isMarkupSymbol(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return false
	}
	switch r {
	case '.', ',', '\'', '’', '(', ')', '-', '–', '—', '!', '?', ';', ':', '%', '+', '/', '&':
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// VocabularyHits counts the distinct job-vocabulary words present in text.
func VocabularyHits(text string) int {
	seen := make(map[string]bool)
	for _, m := range jobVocabulary.FindAllStringSubmatch(text, -1) {
		seen[strings.ToLower(m[1])] = true
	}
	return len(seen)
}

// SanityCheck rejects text dominated by markup or missing job vocabulary.
func SanityCheck(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.New(apperr.KindUnextractableContent, "no job description was found on that page, please paste the text instead")
	}
	if SymbolRatio(text) > MaxSymbolRatio {
		return apperr.New(apperr.KindUnextractableContent, "that page did not render as readable text, please paste the job description instead")
	}
	if VocabularyHits(text) < MinVocabularyHits {
		return apperr.New(apperr.KindUnextractableContent, "that page does not look like a job posting, please paste the job description instead")
	}
	return nil
}
