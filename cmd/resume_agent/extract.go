package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/anonymize"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/pdftext"
	"github.com/jonathan/resume-analyzer/internal/personal"
)

var (
	extractResume    string
	extractAnonymize bool
	extractPretty    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract text and personal details from a PDF resume",
	Long:  `Runs the local extraction steps only: PDF text, personal details and optionally the anonymized text. No model provider is called.`,
	RunE:  runExtract,
}

// ExtractOutput is printed by the extract command.
type ExtractOutput struct {
	FileName   string        `json:"fileName"`
	Pages      int           `json:"pages"`
	Personal   personal.Data `json:"personal"`
	Text       string        `json:"text"`
	Anonymized string        `json:"anonymized,omitempty"`
}

func init() {
	extractCmd.Flags().StringVarP(&extractResume, "resume", "r", "", "Path to the resume PDF")
	extractCmd.Flags().BoolVar(&extractAnonymize, "anonymize", false, "Include the anonymized text")
	extractCmd.Flags().BoolVar(&extractPretty, "pretty", false, "Print only the personal details as a readable summary")
	_ = extractCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(extractResume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	if !pdftext.LooksLikePDF(data) {
		return fmt.Errorf("%s is not a PDF file", extractResume)
	}

	res, err := pdftext.NewExtractor().Extract(context.Background(), data)
	if err != nil {
		return err
	}
	name := filepath.Base(extractResume)
	out := ExtractOutput{
		FileName: name,
		Pages:    res.Pages,
		Personal: personal.Extract(res.Text, name),
		Text:     res.Text,
	}
	if extractAnonymize {
		out.Anonymized = anonymize.Text(res.Text)
	}
	if extractPretty {
		observability.NewPrinter(cmd.OutOrStdout()).PrintPersonal(out.Personal)
		return nil
	}
	return printJSON(cmd, out)
}
