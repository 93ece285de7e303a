package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var (
	renderInput    string
	renderTemplate string
	renderFormat   string
	renderOutput   string
	renderPreview  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a project JSON file to HTML or PDF",
	Long: `Renders a resume project (the JSON shape returned by GET /projects/{id}) with a
template. --preview renders the built-in sample resume instead of an input file.
PDF output requires a local Chrome or Chromium.`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderInput, "input", "i", "", "Path to a project JSON file")
	f.StringVarP(&renderTemplate, "template", "t", "", "Template slug (defaults to the project's template)")
	f.StringVarP(&renderFormat, "format", "f", "html", "Output format: html or pdf")
	f.StringVarP(&renderOutput, "out", "o", "", "Output file (defaults to stdout for html)")
	f.BoolVar(&renderPreview, "preview", false, "Render the sample resume")
	renderCmd.MarkFlagsMutuallyExclusive("input", "preview")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	if renderFormat != "html" && renderFormat != "pdf" {
		return fmt.Errorf("unsupported format %q", renderFormat)
	}
	if renderFormat == "pdf" && renderOutput == "" {
		return fmt.Errorf("--out is required for pdf output")
	}

	registry, err := rendering.NewRegistry(appConfig.TemplatesDir)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	var project *types.Project
	if !renderPreview {
		if renderInput == "" {
			return fmt.Errorf("--input or --preview is required")
		}
		raw, err := os.ReadFile(renderInput)
		if err != nil {
			return fmt.Errorf("failed to read project: %w", err)
		}
		project = &types.Project{}
		if err := json.Unmarshal(raw, project); err != nil {
			return fmt.Errorf("failed to parse project JSON: %w", err)
		}
	}

	slug := renderTemplate
	if slug == "" && project != nil {
		slug = project.TemplateSlug
	}
	tpl, ok := registry.Get(slug)
	if !ok {
		return fmt.Errorf("unknown template %q", slug)
	}

	var html string
	if project == nil {
		html, err = rendering.RenderPreview(tpl)
	} else {
		html, err = rendering.RenderProject(tpl, project)
	}
	if err != nil {
		return err
	}

	out := []byte(html)
	if renderFormat == "pdf" {
		exporter := rendering.NewPDFExporter()
		exporter.Timeout = 60 * time.Second
		if out, err = exporter.Export(context.Background(), html); err != nil {
			return fmt.Errorf("PDF export failed: %w", err)
		}
	}

	if renderOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(renderOutput, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", renderOutput, len(out))
	return nil
}
