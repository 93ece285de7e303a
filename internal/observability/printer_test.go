package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/personal"
	"github.com/jonathan/resume-analyzer/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(&analysis.Result{
		AnalysisResult: types.AnalysisResult{
			MatchScore:      75,
			MissingKeywords: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
			Tips:            []string{"Quantify the billing migration"},
			ModelUsed:       "anthropic/claude",
		},
		Provider: llm.ViaSecondary,
		JobTitle: "Backend Engineer",
	})

	out := buf.String()
	assert.Contains(t, out, "Match score: 75/100  [###############.....]")
	assert.Contains(t, out, "anthropic/claude (secondary)")
	assert.Contains(t, out, "... and 2 more")
	assert.Contains(t, out, "Quantify the billing migration")
	assert.NotContains(t, out, "Strengths")

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}

func TestPrintPersonal_MissingFields(t *testing.T) {
	name := "Jane Smith"
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPersonal(personal.Data{FullName: &name})

	assert.Contains(t, buf.String(), "Name:         Jane Smith")
	assert.Contains(t, buf.String(), "Email:        -")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrap("short", 10))
	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 8))
	assert.Equal(t, []string{"abcd", "efgh", "ij x"}, wrap("abcdefghij x", 4))
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, "[....................]", scoreBar(-3))
	assert.Equal(t, "[####################]", scoreBar(140))
}
