package personal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSkillTokens_MergedTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"symbol then capital", "C++JavaPython", []string{"C++", "Java", "Python"}},
		{"protected camel case", "JavaScriptTypeScriptPostgreSQL", []string{"JavaScript", "TypeScript", "PostgreSQL"}},
		{"protected after lowercase", "ReactNode.jsMongoDBExpress", []string{"React", "Node.js", "MongoDB", "Express"}},
		{"protected after word", "GoogleOAuthJavaScript", []string{"Google", "OAuth", "JavaScript"}},
		{"adjacent versions", "CSS3HTML5", []string{"CSS3", "HTML5"}},
		{"lowercase lookalike inside a word", "Accessibility Scenarios", []string{"Accessibility Scenarios"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSkillTokens(tt.in))
		})
	}
}

func TestExtractSkills_MergedLine(t *testing.T) {
	assert.Equal(t, []string{"React", "Node.js", "MongoDB", "Express"}, ExtractSkills("SKILLS\nReactNode.jsMongoDBExpress"))
}

func TestParseSkillTokens_DedupCaseInsensitive(t *testing.T) {
	got := ParseSkillTokens("Go, go, GO | Docker; docker")
	assert.Equal(t, []string{"Go", "Docker"}, got)
}

func TestParseSkillTokens_Filters(t *testing.T) {
	span := "1. Kubernetes\n- Terraform\n• and\nexperience\nx\nI built a distributed system that scales well.\n" +
		"a very long phrase with far too many words in it\nSQL."
	got := ParseSkillTokens(span)
	assert.Equal(t, []string{"Kubernetes", "Terraform", "SQL"}, got)
}

func TestParseSkillTokens_CapsAtForty(t *testing.T) {
	var parts []string
	for i := 0; i < 60; i++ {
		parts = append(parts, "skill"+strings.Repeat("x", i%7)+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}
	got := ParseSkillTokens(strings.Join(parts, ", "))
	assert.Len(t, got, 40)
}

func TestExtractSkills_StopsAtNextHeader(t *testing.T) {
	text := "Summary\nBuilder of things\n\nTechnical Skills & Tools\nGo | Rust | Docker\n\nWork Experience\nGo developer at Foo"
	assert.Equal(t, []string{"Go", "Rust", "Docker"}, ExtractSkills(text))
}

func TestExtractSkills_InlineHeader(t *testing.T) {
	assert.Equal(t, []string{"Go", "Python", "SQL"}, ExtractSkills(janeResume))
}

func TestExtractSkills_SentenceMentioningToolsIsNotAHeader(t *testing.T) {
	text := "Built tools for internal teams\nEducation\nMIT"
	assert.Empty(t, ExtractSkills(text))
}

func TestExtractSkills_NoHeader(t *testing.T) {
	assert.Empty(t, ExtractSkills("Jane Smith\nGo developer"))
}

func TestExtractSkills_BoundedSpan(t *testing.T) {
	text := "Skills\n" + strings.Repeat("Go, ", 10) + strings.Repeat(" ", 2100) + "Haskell"
	assert.NotContains(t, ExtractSkills(text), "Haskell")
}
