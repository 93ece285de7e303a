package llm

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Fallback values for an ATS reply that cannot be parsed.
const (
	DefaultATSScore = 50
	DefaultATSTip   = "The automated keyword check could not be completed; review the job description for keywords your resume does not mention."
)

var bulletMarker = regexp.MustCompile(`^\s*(?:[-*•·▪‣◦]|\d+[.)])\s*`)

// GenerateSummary writes a resume summary from the candidate's compiled resume text.
func (o *Orchestrator) GenerateSummary(ctx context.Context, name, headline, content string) (Tagged[string], error) {
	prompt, err := prompts.Render(prompts.BuilderFile, "generate-summary", map[string]string{
		"Name":     fallback(name, "(not specified)"),
		"Headline": fallback(headline, "(not specified)"),
		"Content":  content,
	})
	if err != nil {
		return Tagged[string]{}, apperr.Wrap(apperr.KindInternal, err, "load summary prompt")
	}
	reply, err := o.Complete(ctx, Request{Prompt: prompt})
	if err != nil {
		return Tagged[string]{}, err
	}
	reply.Value = strings.Trim(strings.TrimSpace(CleanJSONBlock(reply.Value)), `"`)
	if reply.Value == "" {
		return Tagged[string]{}, apperr.New(apperr.KindMalformedResponse, "the assistant returned an empty summary")
	}
	return reply, nil
}

// RewriteBullets rewrites resume bullet points. role may be empty.
func (o *Orchestrator) RewriteBullets(ctx context.Context, role string, bullets []string) (Tagged[[]string], error) {
	roleClause := ""
	if role = strings.TrimSpace(role); role != "" {
		roleClause = " for a " + role + " role"
	}
	prompt, err := prompts.Render(prompts.BuilderFile, "rewrite-bullets", map[string]string{
		"RoleClause": roleClause,
		"Bullets":    "- " + strings.Join(bullets, "\n- "),
	})
	if err != nil {
		return Tagged[[]string]{}, apperr.Wrap(apperr.KindInternal, err, "load bullets prompt")
	}
	reply, err := o.Complete(ctx, Request{Prompt: prompt})
	if err != nil {
		return Tagged[[]string]{}, err
	}
	lines := ParseBullets(reply.Value)
	if len(lines) == 0 {
		return Tagged[[]string]{}, apperr.New(apperr.KindMalformedResponse, "the assistant returned no bullet points")
	}
	return Tagged[[]string]{Via: reply.Via, Model: reply.Model, Value: lines}, nil
}

// ParseBullets splits a plain-text reply into bullet lines without their
// list markers.
func ParseBullets(raw string) []string {
	var out []string
	for _, line := range strings.Split(CleanJSONBlock(raw), "\n") {
		line = strings.TrimSpace(bulletMarker.ReplaceAllString(line, ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// CheckATS screens compiled resume text against a job. A reply that cannot
// be parsed yields a neutral default rather than an error; provider failures
// are still returned.
func (o *Orchestrator) CheckATS(ctx context.Context, job types.JobContent, resume string) (*types.ATSCheck, error) {
	prompt, err := prompts.Render(prompts.BuilderFile, "ats-check", map[string]string{
		"JobTitle":       fallback(job.Title, "(not specified)"),
		"JobDescription": job.Description,
		"Resume":         resume,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "load ATS prompt")
	}
	reply, err := o.Complete(ctx, Request{Prompt: prompt, JSON: true})
	if err != nil {
		return nil, err
	}
	check := ParseATS(reply.Value, o.logger())
	check.ModelUsed = reply.Model
	return check, nil
}

// ParseATS decodes an ATS reply, falling back to DefaultATSScore.
func ParseATS(raw string, logger zerolog.Logger) *types.ATSCheck {
	obj, err := DecodeObject(raw, logger)
	if err != nil {
		return defaultATS()
	}
	score, ok := number(obj["score"])
	if !ok {
		return defaultATS()
	}
	return &types.ATSCheck{
		Score:           clampScore(score),
		MissingKeywords: stringList(obj["missingKeywords"]),
		Tips:            stringList(obj["tips"]),
	}
}

func defaultATS() *types.ATSCheck {
	return &types.ATSCheck{
		Score:           DefaultATSScore,
		MissingKeywords: []string{},
		Tips:            []string{DefaultATSTip},
	}
}

func (o *Orchestrator) logger() zerolog.Logger {
	if o == nil {
		return zerolog.Nop()
	}
	return o.Logger
}
