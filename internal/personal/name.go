package personal

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// NameStrategy proposes a candidate name from the resume text.
type NameStrategy func(text string) string

// bodyNameStrategies run in order when the file name does not yield a validated name.
var bodyNameStrategies = []NameStrategy{
	NameFromLeadingRun,
	NameBeforeEmail,
	NameFromFirstLines,
}

// fileNameNoise are tokens that commonly appear in resume file names but are never part of a name.
var fileNameNoise = map[string]bool{
	"resume": true, "resumé": true, "cv": true, "curriculum": true, "vitae": true, "vita": true,
	"draft": true, "final": true, "updated": true, "latest": true, "new": true, "copy": true,
	"version": true, "ver": true, "rev": true, "revised": true, "doc": true, "pdf": true,
	"my": true, "the": true, "of": true,
}

// headerWords disqualify a candidate name; they show up in section headers and title lines.
var headerWords = map[string]bool{
	"resume": true, "curriculum": true, "vitae": true, "cv": true,
	"email": true, "e-mail": true, "contact": true, "phone": true, "mobile": true, "tel": true,
	"objective": true, "summary": true, "profile": true, "address": true,
	"experience": true, "education": true, "skills": true, "projects": true,
	"linkedin": true, "github": true, "portfolio": true, "website": true,
	"engineer": true, "developer": true, "manager": true, "senior": true, "junior": true,
	"software": true, "professional": true, "personal": true, "details": true, "information": true,
}

var (
	versionToken  = regexp.MustCompile(`^(?i)v\d+$`)
	yearToken     = regexp.MustCompile(`^\d{4}$`)
	camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
	separatorRun  = regexp.MustCompile(`[\s_\-.()\[\]]+`)

	leadingRun    = regexp.MustCompile(`[A-Z][a-zA-Z'\-]+(?:[ \t]+[A-Z][a-zA-Z'\-]+){1,2}`)
	segmentSplit  = regexp.MustCompile(`\n|\||•|·|\t| {2,}`)
	nameLine      = regexp.MustCompile(`^[A-Za-z .\-]+$`)
	nameSegment   = regexp.MustCompile(`^[A-Za-z][A-Za-z .'\-]*[A-Za-z.]$`)
	emailSegments = []string{"email", "contact", "phone", "resume", "objective"}
)

// ResolveName returns the best name candidate: a file-name-derived name that is
// confirmed by the text, otherwise the first body strategy that produces one.
func ResolveName(text, fileName string) string {
	if name := NameFromFileName(fileName, text); name != "" {
		return name
	}
	for _, strategy := range bodyNameStrategies {
		if name := strategy(text); name != "" {
			return name
		}
	}
	return ""
}

// FileNameCandidate derives a name candidate from a file name by stripping
// the extension, noise tokens, years and version markers and splitting
// camelCase, kebab-case and snake_case.
func FileNameCandidate(fileName string) []string {
	base := filepath.Base(strings.TrimSpace(fileName))
	if base == "." || base == "/" {
		return nil
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = camelBoundary.ReplaceAllString(base, "$1 $2")

	var words []string
	for _, tok := range separatorRun.Split(base, -1) {
		if tok == "" {
			continue
		}
		lower := strings.ToLower(tok)
		if fileNameNoise[lower] || yearToken.MatchString(tok) || versionToken.MatchString(tok) {
			continue
		}
		if !isAlphaWord(tok) {
			continue
		}
		words = append(words, tok)
	}
	return words
}

// NameFromFileName accepts the file-name candidate only when at least two of
// its words, or its first and last word, occur as whole words in text. This
// rejects file names unrelated to the document.
func NameFromFileName(fileName, text string) string {
	words := FileNameCandidate(fileName)
	if len(words) < 2 || strings.TrimSpace(text) == "" {
		return ""
	}

	matched := 0
	for _, w := range words {
		if containsWord(text, w) {
			matched++
		}
	}
	firstLast := containsWord(text, words[0]) && containsWord(text, words[len(words)-1])
	if matched < 2 && !firstLast {
		return ""
	}

	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, " ")
}

// NameFromLeadingRun looks for a capitalised run of two or three words in the
// first 100 characters that contains no header word.
func NameFromLeadingRun(text string) string {
	head := text
	if len(head) > 100 {
		head = head[:100]
	}
	for _, m := range leadingRun.FindAllString(head, -1) {
		if !hasHeaderWord(m) {
			return m
		}
	}
	return ""
}

// NameBeforeEmail scans up to 300 characters before the first email address,
// splits on blank-ish separators and returns the closest segment that looks
// like a name.
func NameBeforeEmail(text string) string {
	loc := emailPattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	start := loc[0] - 300
	if start < 0 {
		start = 0
	}
	window := text[start:loc[0]]

	segments := segmentSplit.Split(window, -1)
	for i := len(segments) - 1; i >= 0; i-- {
		seg := strings.Trim(strings.TrimSpace(segments[i]), ",:;-")
		if seg == "" {
			continue
		}
		lower := strings.ToLower(seg)
		rejected := false
		for _, w := range emailSegments {
			if strings.Contains(lower, w) {
				rejected = true
				break
			}
		}
		if rejected {
			continue
		}
		n := len(strings.Fields(seg))
		if n >= 2 && n <= 4 && nameSegment.MatchString(seg) && !hasHeaderWord(seg) {
			return seg
		}
	}
	return ""
}

// NameFromFirstLines returns the first of the first five non-empty lines that
// has two to four words of letters, spaces, dots or hyphens and is 5-50 chars long.
func NameFromFirstLines(text string) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > 5 {
			break
		}
		n := len(strings.Fields(line))
		if n < 2 || n > 4 || len(line) < 5 || len(line) > 50 {
			continue
		}
		if nameLine.MatchString(line) && !hasHeaderWord(line) {
			return strings.Join(strings.Fields(line), " ")
		}
	}
	return ""
}

func hasHeaderWord(s string) bool {
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if headerWords[strings.Trim(w, ".,:;-")] {
			return true
		}
	}
	return false
}

func containsWord(text, word string) bool {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

func isAlphaWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '\'' {
			return false
		}
	}
	return s != ""
}

// titleCase upper-cases the first letter of all-lower or all-upper words and
// leaves mixed-case words such as "McDonald" alone.
func titleCase(w string) string {
	if w != strings.ToLower(w) && w != strings.ToUpper(w) {
		return w
	}
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
