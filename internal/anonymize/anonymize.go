// Package anonymize redacts personal identifiers from resume text before it is
// sent to a model provider.
package anonymize

import (
	"regexp"

	"github.com/jonathan/resume-analyzer/internal/personal"
)

// Placeholder tokens substituted for redacted spans.
const (
	EmailToken    = "[EMAIL]"
	PhoneToken    = "[PHONE]"
	LinkedInToken = "[LINKEDIN]"
	GitHubToken   = "[GITHUB]"
	AddressToken  = "[ADDRESS]"
)

type rule struct {
	pattern *regexp.Regexp
	token   string
}

// rules run in order. Links go before emails so "github.com/x" inside an
// address line is not half-eaten, and emails go before phones so digits in a
// mailbox name survive as part of [EMAIL]. A labelled handle such as
// "GitHub: jsmith" is replaced together with its label.
var rules = func() []rule {
	var rs []rule
	add := func(patterns []*regexp.Regexp, token string) {
		for _, p := range patterns {
			rs = append(rs, rule{p, token})
		}
	}
	add(personal.LinkedInPatterns(), LinkedInToken)
	add(personal.GitHubPatterns(), GitHubToken)
	add([]*regexp.Regexp{personal.EmailPattern()}, EmailToken)
	add(personal.PhonePatterns(), PhoneToken)
	add(personal.AddressPatterns(), AddressToken)
	return rs
}()

// Text returns a copy of text with every email, phone number, LinkedIn and
// GitHub profile and address replaced by its placeholder token.
func Text(text string) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllLiteralString(text, r.token)
	}
	return text
}
