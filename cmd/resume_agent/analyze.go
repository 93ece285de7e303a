package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/jobsource"
	"github.com/jonathan/resume-analyzer/internal/observability"
)

var (
	analyzeResume  string
	analyzeCacheID string
	analyzeJobID   string
	analyzeJobURL  string
	analyzeJobFile string
	analyzeJobText string
	analyzeUserID  string
	analyzePretty  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a PDF resume against a job posting",
	Long: `Extracts the resume text, anonymizes it, resolves the job and asks the
configured model provider for a match score. Prints the result as JSON,
or as a readable summary with --pretty.

Exactly one job source is required: --job-id, --job-url, --job-file or --job-text.`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeResume, "resume", "r", "", "Path to the resume PDF")
	f.StringVar(&analyzeCacheID, "resume-cache-id", "", "Reuse the parsed text of a resume metadata record")
	f.StringVar(&analyzeJobID, "job-id", "", "Job listing ID in the job store")
	f.StringVar(&analyzeJobURL, "job-url", "", "URL of the job posting")
	f.StringVarP(&analyzeJobFile, "job-file", "j", "", "Path to a job description text file")
	f.StringVar(&analyzeJobText, "job-text", "", "Job description text")
	f.StringVar(&analyzeUserID, "user-id", "", "Owner recorded on the resume metadata")
	f.BoolVar(&analyzePretty, "pretty", false, "Print a readable summary instead of JSON")
	analyzeCmd.MarkFlagsMutuallyExclusive("job-id", "job-url", "job-file", "job-text")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	req := analysis.Request{
		ResumeCacheID: analyzeCacheID,
		UserID:        analyzeUserID,
		Job:           jobsource.Request{JobID: analyzeJobID, JobURL: analyzeJobURL, JobText: analyzeJobText},
	}
	if analyzeResume != "" {
		data, err := os.ReadFile(analyzeResume)
		if err != nil {
			return fmt.Errorf("failed to read resume: %w", err)
		}
		req.Resume = data
		req.FileName = filepath.Base(analyzeResume)
	}
	if analyzeJobFile != "" {
		data, err := os.ReadFile(analyzeJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job file: %w", err)
		}
		req.Job.JobText = strings.TrimSpace(string(data))
	}

	a, err := newApp(ctx, appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	a.analysis.OnProgress = func(step analysis.Step) {
		a.logger.Debug().Str("step", string(step)).Msg("analysis progress")
	}
	result, err := a.analysis.Analyze(ctx, req)
	if err != nil {
		return err
	}
	if analyzePretty {
		observability.NewPrinter(cmd.OutOrStdout()).PrintAnalysis(result)
		return nil
	}
	return printJSON(cmd, result)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
