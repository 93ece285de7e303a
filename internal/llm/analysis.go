package llm

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
	embedded "github.com/jonathan/resume-analyzer/schemas"
)

// ScoreResume compares an anonymized resume with a job and returns the
// scored analysis together with the provider that produced it.
func (o *Orchestrator) ScoreResume(ctx context.Context, job types.JobContent, resume string) (Tagged[*types.AnalysisResult], error) {
	prompt, err := prompts.Render(prompts.AnalysisFile, "score-resume", map[string]string{
		"JobTitle":       fallback(job.Title, "(not specified)"),
		"JobDescription": job.Description,
		"Resume":         resume,
	})
	if err != nil {
		return Tagged[*types.AnalysisResult]{}, apperr.Wrap(apperr.KindInternal, err, "load analysis prompt")
	}

	reply, err := o.Complete(ctx, Request{Prompt: prompt, JSON: true})
	if err != nil {
		return Tagged[*types.AnalysisResult]{}, err
	}

	result, err := ParseAnalysis(reply.Value, o.logger())
	if err != nil {
		return Tagged[*types.AnalysisResult]{}, err
	}
	result.ModelUsed = reply.Model
	if err := schemas.ValidateValue(embedded.AnalysisResult, result); err != nil {
		return Tagged[*types.AnalysisResult]{}, apperr.Wrap(apperr.KindMalformedResponse, err, "the analysis service returned an invalid response")
	}
	return Tagged[*types.AnalysisResult]{Via: reply.Via, Model: reply.Model, Value: result}, nil
}

// ParseAnalysis decodes a scoring reply. matchScore must be present and
// numeric; it is clamped to [0,100]. List fields that are not arrays become
// empty lists.
func ParseAnalysis(raw string, logger zerolog.Logger) (*types.AnalysisResult, error) {
	obj, err := DecodeObject(raw, logger)
	if err != nil {
		return nil, err
	}
	score, ok := number(obj["matchScore"])
	if !ok {
		return nil, apperr.New(apperr.KindMalformedResponse, "the analysis service returned no match score")
	}
	assessment, _ := obj["overallAssessment"].(string)
	return &types.AnalysisResult{
		MatchScore:        clampScore(score),
		MissingKeywords:   stringList(obj["missingKeywords"]),
		Strengths:         stringList(obj["strengths"]),
		Tips:              stringList(obj["tips"]),
		OverallAssessment: strings.TrimSpace(assessment),
	}, nil
}

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
