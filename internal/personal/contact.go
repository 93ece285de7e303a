package personal

import (
	"regexp"
	"sort"
	"strings"
)

// Patterns are exported so the anonymizer redacts exactly what this package finds.
var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// phonePatterns are tried together; candidates are ordered by position.
	phonePatterns = []*regexp.Regexp{
		// explicit country code, international grouping
		regexp.MustCompile(`\+\d{1,3}[\s\-.]?\(?\d{1,4}\)?(?:[\s\-.]?\d{2,5}){2,4}`),
		// India: +91 then ten digits starting 6-9
		regexp.MustCompile(`(?:\+91[\s\-]?)?\b[6-9]\d{4}[\s\-]?\d{5}\b`),
		// North America: optional +1 then 3-3-4
		regexp.MustCompile(`(?:\+1[\s\-.]?)?\(?\b\d{3}\)?[\s\-.]?\d{3}[\s\-.]\d{4}\b`),
	}

	linkedInPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/(?:in|pub)/[A-Za-z0-9_\-%]+/?`),
		regexp.MustCompile(`(?i)linkedin\s*[:\-]\s*([A-Za-z0-9_\-]{3,100})`),
	}

	gitHubPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_\-]+`),
		regexp.MustCompile(`(?i)github\s*[:\-]\s*([A-Za-z0-9_\-]{2,39})`),
	}

	portfolioPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:portfolio|website|web|site|blog)\s*[:\-]\s*((?:https?://)?[^\s,|]+\.[^\s,|]+)`),
		regexp.MustCompile(`(?i)https?://[^\s,|)]+`),
		regexp.MustCompile(`(?i)\bwww\.[a-z0-9\-]+\.[^\s,|)]+`),
		regexp.MustCompile(`(?i)\b[a-z0-9\-]+\.(?:dev|io|me|site|tech|app|page|xyz|design|portfolio)(?:/[^\s,|)]*)?\b`),
	}

	dobPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:date\s+of\s+birth|d\.?o\.?b\.?|born(?:\s+on)?)\s*[:\-]?\s*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
		regexp.MustCompile(`(?i)\b(?:date\s+of\s+birth|d\.?o\.?b\.?|born(?:\s+on)?)\s*[:\-]?\s*(\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]{3,9},?\s+\d{4})`),
		regexp.MustCompile(`(?i)\b(?:date\s+of\s+birth|d\.?o\.?b\.?|born(?:\s+on)?)\s*[:\-]?\s*([A-Za-z]{3,9}\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})`),
		regexp.MustCompile(`(?i)\b(?:date\s+of\s+birth|d\.?o\.?b\.?)\s*[:\-]?\s*(\d{4}-\d{2}-\d{2})`),
	}

	addressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:address|residence|location)\s*[:\-]\s*([^\n]{5,120})`),
		streetPattern,
		regexp.MustCompile(`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+)*,\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`),
	}

	streetPattern = regexp.MustCompile(`\b\d{1,5}\s+(?:[A-Z][A-Za-z]*\.?\s+){1,4}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Way|Place|Pl|Terrace|Parkway|Pkwy|Highway|Hwy|Nagar|Marg)\b\.?(?:,\s*[A-Za-z][A-Za-z .]*){0,3}(?:,?\s*\d{5,6})?`)
)

// EmailPattern matches email addresses.
func EmailPattern() *regexp.Regexp { return emailPattern }

// PhonePatterns returns the phone number patterns.
func PhonePatterns() []*regexp.Regexp { return phonePatterns }

// LinkedInPatterns returns the LinkedIn URL and labelled-handle patterns.
func LinkedInPatterns() []*regexp.Regexp { return linkedInPatterns }

// GitHubPatterns returns the GitHub URL and labelled-handle patterns.
func GitHubPatterns() []*regexp.Regexp { return gitHubPatterns }

// AddressPatterns returns the labelled, street and city-state address patterns.
func AddressPatterns() []*regexp.Regexp { return addressPatterns }

// FindEmail returns the first email address in text.
func FindEmail(text string) string {
	return emailPattern.FindString(text)
}

type phoneCandidate struct {
	pos        int
	normalized string
}

// FindPhones collects phone candidates from every pattern, normalises them,
// deduplicates on the last ten digits keeping the most qualified form and
// returns at most two numbers joined by ", ".
func FindPhones(text string) string {
	var candidates []phoneCandidate
	for _, re := range phonePatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			norm := NormalizePhone(text[loc[0]:loc[1]])
			if norm == "" {
				continue
			}
			candidates = append(candidates, phoneCandidate{pos: loc[0], normalized: norm})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].pos < candidates[j].pos })

	var order []string
	best := make(map[string]string)
	for _, c := range candidates {
		key := lastDigits(c.normalized, 10)
		prev, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = c.normalized
			continue
		}
		if len(c.normalized) > len(prev) {
			best[key] = c.normalized
		}
	}

	var out []string
	for _, key := range order {
		out = append(out, best[key])
		if len(out) == 2 {
			break
		}
	}
	return strings.Join(out, ", ")
}

// NormalizePhone strips formatting. Numbers that carried a country code, or
// have more than ten digits, get a leading '+'. Fewer than ten or more than
// fifteen digits is not a phone number.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 10 || len(d) > 15 {
		return ""
	}
	if strings.Contains(raw, "+") || len(d) > 10 {
		return "+" + d
	}
	return d
}

func lastDigits(s string, n int) string {
	s = strings.TrimPrefix(s, "+")
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// FindLinkedIn returns the first LinkedIn reference.
func FindLinkedIn(text string) string {
	return firstMatch(linkedInPatterns, text)
}

// FindGitHub returns the first GitHub reference.
func FindGitHub(text string) string {
	return firstMatch(gitHubPatterns, text)
}

// FindPortfolio returns the first link that is not an email domain, LinkedIn or GitHub.
func FindPortfolio(text string) string {
	for _, re := range portfolioPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if len(m) >= 4 && m[2] >= 0 {
				start, end = m[2], m[3]
			}
			if start > 0 && (text[start-1] == '@' || text[start-1] == '.') {
				continue
			}
			candidate := strings.TrimRight(text[start:end], ".,;:")
			lower := strings.ToLower(candidate)
			if strings.Contains(lower, "linkedin.com") || strings.Contains(lower, "github.com") || strings.Contains(lower, "@") {
				continue
			}
			return candidate
		}
	}
	return ""
}

// FindDateOfBirth returns the first labelled date of birth.
func FindDateOfBirth(text string) string {
	return firstMatch(dobPatterns, text)
}

// FindAddress returns the first address-like span.
func FindAddress(text string) string {
	return strings.TrimRight(firstMatch(addressPatterns, text), " ,.")
}

// firstMatch returns the first capture group (or whole match) of the first pattern that matches.
func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && m[1] != "" {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(m[0])
	}
	return ""
}
