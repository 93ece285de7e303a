package jobsource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/apperr"
)

const readerPage = `Title: Senior Go Engineer - Acme

URL Source: https://jobs.acme.com/1

Markdown Content:
[Home](https://acme.com) [Careers](https://acme.com/careers) [Privacy Policy](https://acme.com/privacy)

Senior Go Engineer
==================

Acme builds payment infrastructure for small businesses. You will join the platform team
that owns our core ledger and its public APIs.

Responsibilities
- Design, build and operate Go services that move money reliably
- Run workloads on Kubernetes and tune PostgreSQL queries
- Mentor engineers and lead design reviews

Requirements
- 5+ years of professional experience with Go
- Strong SQL and distributed systems skills

Benefits
- Competitive salary and equity
- Remote-first team

Privacy Policy | Terms of Use
© 2026 Acme. All rights reserved.`

func TestExtractPosting_TitleWithUnderline(t *testing.T) {
	got, err := ExtractPosting(readerPage)
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", got.Title)
	assert.True(t, strings.HasPrefix(got.Description, "Senior Go Engineer\n=================="))
	assert.True(t, strings.HasSuffix(got.Description, "- Remote-first team"))
}

func TestExtractPosting_ReaderTitleFallback(t *testing.T) {
	page := "Title: Data Analyst\n\n" + strings.Repeat("Our team values experience, skills and clear requirements. ", 3)
	got, err := ExtractPosting(page)
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", got.Title)
}

func TestIsolateRegion_SectionMarkerBacksUp(t *testing.T) {
	nav := strings.Repeat("Menu item\n", 60)
	heading := "Staff Product Designer at Foo\n"
	text := nav + heading + "About the Role\nYou will own design systems."

	title, region := IsolateRegion(text)
	assert.Empty(t, title)
	assert.Contains(t, region, heading)
	assert.Contains(t, region, "About the Role")
	assert.Less(t, len(region), len(text)-300)
	assert.True(t, strings.HasPrefix(region, "Menu item\n"), "region starts on a line boundary")
}

func TestIsolateRegion_NoMarkers(t *testing.T) {
	title, region := IsolateRegion("just some text")
	assert.Empty(t, title)
	assert.Equal(t, "just some text", region)
}

func TestIsolateRegion_UnderlineNeedsRoleWord(t *testing.T) {
	text := "Welcome\n=======\nJob description here"
	title, _ := IsolateRegion(text)
	assert.Empty(t, title)
}

func TestTrimBoilerplate(t *testing.T) {
	body := strings.Repeat("We build things with Go. ", 20)
	assert.Equal(t, strings.TrimSpace(body), TrimBoilerplate(body+"\nFollow us on LinkedIn\nPrivacy Policy"))

	// nav link near the top is kept
	text := "[Privacy Policy](/p)\n" + body
	assert.Equal(t, text, TrimBoilerplate(text))
}

func TestTruncate(t *testing.T) {
	text := strings.Repeat("word ", 3000)
	got := Truncate(text, MaxDescriptionChars)
	assert.LessOrEqual(t, len(got), MaxDescriptionChars)
	assert.Greater(t, len(got), MaxDescriptionChars-200)
	assert.True(t, strings.HasSuffix(got, "word"))

	multi := strings.Repeat("é", 10)
	assert.Equal(t, strings.Repeat("é", 2), Truncate(multi, 5))
	assert.Equal(t, "short", Truncate("short", 10))
}

func TestSymbolRatio(t *testing.T) {
	assert.Less(t, SymbolRatio("We need a Go engineer (5+ years), with SQL & AWS experience."), 0.05)
	assert.Greater(t, SymbolRatio(`{"a":{"b":[1,2]},"c":"<div>"}`), MaxSymbolRatio)
	assert.Equal(t, 0.0, SymbolRatio("   "))
}

func TestVocabularyHits(t *testing.T) {
	assert.Equal(t, 0, VocabularyHits("Home About Contact Blog"))
	assert.Equal(t, 4, VocabularyHits("Experienced team player, great benefits, strong skills, more skills"))
}

func TestSanityCheck(t *testing.T) {
	assert.True(t, apperr.Is(SanityCheck(""), apperr.KindUnextractableContent))
	assert.True(t, apperr.Is(SanityCheck("Home\nAbout us\nContact\nBlog"), apperr.KindUnextractableContent))
	assert.True(t, apperr.Is(SanityCheck(`{{"role":"x"}} [[team]] <<skills>> ##experience##`), apperr.KindUnextractableContent))
	assert.NoError(t, SanityCheck("The role needs experience and skills on a small team."))
}

func TestCleanText(t *testing.T) {
	in := "Title  with   spaces\r\n\r\n\r\n\r\n  - bullet   one\n    - nested\n\t# Heading  \n"
	assert.Equal(t, "Title with spaces\n\n  - bullet one\n    - nested\n# Heading", CleanText(in))
	assert.Equal(t, "", CleanText(""))
}
