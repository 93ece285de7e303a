package personal

import (
	"regexp"
	"strings"
)

const (
	maxSkillSpan   = 2000
	maxSkills      = 40
	minSkillLen    = 2
	maxSkillLen    = 50
	maxSkillWords  = 5
	headerRestScan = 30
)

var (
	skillsHeader = regexp.MustCompile(`(?im)^[ \t]*(?:[A-Za-z&/]+[ \t]+){0,2}(?:skills|competencies|technologies|tech stack|expertise|proficiencies|tools)\b`)
	majorHeader  = regexp.MustCompile(`(?im)^[ \t]*(?:[A-Za-z]+[ \t]+){0,2}(?:experience|education|projects|certifications?|achievements|awards|publications|references|summary|objective|profile|employment|career)\b[ \t]*(?::|$)`)

	lowerUpper  = regexp.MustCompile(`([a-z])([A-Z])`)
	letterDigit = regexp.MustCompile(`([A-Za-z])(\d)`)
	symbolUpper = regexp.MustCompile(`([+#])([A-Z])`)

	// a closing marker followed by another marker or a capital
	markerBoundary = regexp.MustCompile(`\x00(\x00|[A-Z])`)

	headerSuffix  = regexp.MustCompile(`^(?i)(?:&|/|and)\s*[A-Za-z ]{0,20}$`)
	skillSplit    = regexp.MustCompile(`[•·●▪■◦►✓\|;,\n]+|\s[-–—]\s`)
	leadingNumber = regexp.MustCompile(`^(?:\d+[.)]|[-*–•])\s*`)
)

// protectedSkills keep their internal case or digit boundaries when merged tokens are split.
var protectedSkills = []string{
	"JavaScript", "TypeScript", "CoffeeScript", "ActionScript", "PostgreSQL", "MySQL", "NoSQL", "GraphQL",
	"MongoDB", "DynamoDB", "CouchDB", "InfluxDB", "MariaDB", "GitHub", "GitLab", "BitBucket", "PowerShell",
	"WordPress", "DevOps", "MLOps", "FastAPI", "NumPy", "SciPy", "PyTorch", "TensorFlow", "LaTeX",
	"iOS", "macOS", "OpenAI", "OpenCV", "CloudFormation", "BigQuery", "RabbitMQ", "ZeroMQ", "NextJS",
	"NodeJS", "ReactJS", "VueJS", "jQuery", "OAuth", "WebSocket", "WebSockets", "PySpark", "SQLite",
	"RxJS", "SwiftUI", "AngularJS", "LangChain", "HuggingFace", "ElasticSearch", "OpenShift", "NestJS",
	"S3", "EC2", "HTML5", "CSS3", "ES6", "Web3", "K8s", "Python3", "Vue3", "OAuth2", "IPv4", "IPv6",
}

// stopWords are filler tokens that survive splitting but are not skills.
var stopWords = map[string]bool{
	"and": true, "or": true, "with": true, "using": true, "etc": true, "etc.": true,
	"years": true, "year": true, "experience": true, "proficient": true, "knowledge": true,
	"familiar": true, "including": true, "in": true, "of": true, "the": true, "skills": true,
	"tools": true, "strong": true, "good": true, "excellent": true, "basic": true,
	"advanced": true, "intermediate": true, "expert": true, "others": true, "other": true,
	"various": true, "technologies": true, "languages": true, "frameworks": true,
}

// ExtractSkills finds the skills section and returns its deduplicated entries in document order.
func ExtractSkills(text string) []string {
	span := skillsSpan(text)
	if span == "" {
		return nil
	}
	return ParseSkillTokens(span)
}

// skillsSpan returns the text between a skills header and the next major header,
// bounded to maxSkillSpan characters.
func skillsSpan(text string) string {
	start := -1
	for _, loc := range skillsHeader.FindAllStringIndex(text, -1) {
		if s, ok := headerContentStart(text, loc[1]); ok {
			start = s
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := len(text)
	if start+maxSkillSpan < end {
		end = start + maxSkillSpan
	}
	if next := majorHeader.FindStringIndex(text[start:end]); next != nil {
		end = start + next[0]
	}
	return text[start:end]
}

// headerContentStart decides whether the keyword ending at pos is a real
// header and where its content begins. Accepted shapes are a bare header line,
// "Skills: Go, SQL" and "Skills & Tools".
func headerContentStart(text string, pos int) (int, bool) {
	lineEnd := strings.IndexByte(text[pos:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text) - pos
	}
	rest := text[pos : pos+lineEnd]

	if colon := strings.IndexByte(rest, ':'); colon >= 0 && colon <= headerRestScan {
		return pos + colon + 1, true
	}
	trimmed := strings.TrimSpace(rest)
	if trimmed == "" || headerSuffix.MatchString(trimmed) {
		return pos + lineEnd, true
	}
	return 0, false
}

// ParseSkillTokens splits a skills span into individual skills. Tokens that
// lossy extraction glued together ("C++JavaPython") are split at case, digit
// and symbol boundaries first.
func ParseSkillTokens(span string) []string {
	span, restore := protect(span)
	span = markerBoundary.ReplaceAllString(span, "\x00, $1")
	span = symbolUpper.ReplaceAllString(span, "$1, $2")
	span = lowerUpper.ReplaceAllString(span, "$1, $2")
	span = letterDigit.ReplaceAllString(span, "$1, $2")
	span = restore(span)

	var out []string
	seen := make(map[string]bool)
	for _, raw := range skillSplit.Split(span, -1) {
		tok := cleanSkillToken(raw)
		if tok == "" {
			continue
		}
		key := strings.ToLower(tok)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tok)
		if len(out) == maxSkills {
			break
		}
	}
	return out
}

func cleanSkillToken(raw string) string {
	tok := strings.TrimSpace(raw)
	// "Languages: Go" keeps only the value.
	if i := strings.LastIndex(tok, ":"); i >= 0 {
		tok = strings.TrimSpace(tok[i+1:])
	}
	tok = leadingNumber.ReplaceAllString(tok, "")
	tok = strings.Trim(tok, " \t:-–*•()[]{}\"'")

	words := strings.Fields(tok)
	if len(words) == 0 {
		return ""
	}
	if last := tok[len(tok)-1]; last == '.' || last == '!' || last == '?' {
		if len(words) > 1 {
			return "" // a sentence, not a skill
		}
		tok = strings.TrimRight(tok, ".!?")
	}

	if len(tok) < minSkillLen || len(tok) > maxSkillLen || len(words) > maxSkillWords {
		return ""
	}
	if stopWords[strings.ToLower(tok)] {
		return ""
	}
	return strings.Join(strings.Fields(tok), " ")
}

// protect swaps protected skills for opaque markers and returns a function
// that restores them. A protected skill glued to the end of a lowercase word
// or version ("Node.jsMongoDB") gets a separator, since the case boundary is
// hidden inside the marker.
func protect(s string) (string, func(string) string) {
	var saved []string
	for _, word := range protectedSkills {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))
		locs := re.FindAllStringIndex(s, -1)
		if locs == nil {
			continue
		}
		var b strings.Builder
		last := 0
		for _, loc := range locs {
			m := s[loc[0]:loc[1]]
			b.WriteString(s[last:loc[0]])
			if loc[0] > 0 && gluedBefore(s[loc[0]-1]) && (m == word || isUpper(m[0])) {
				b.WriteString(", ")
			}
			saved = append(saved, m)
			b.WriteString("\x00" + strings.Repeat("\x01", len(saved)) + "\x00")
			last = loc[1]
		}
		b.WriteString(s[last:])
		s = b.String()
	}
	return s, func(out string) string {
		for i := len(saved) - 1; i >= 0; i-- {
			out = strings.ReplaceAll(out, "\x00"+strings.Repeat("\x01", i+1)+"\x00", saved[i])
		}
		return out
	}
}

func gluedBefore(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '.'
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
