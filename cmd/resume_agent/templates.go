package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/rendering"
)

var templatesJSON bool

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available resume templates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry, err := rendering.NewRegistry(appConfig.TemplatesDir)
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		list := registry.List()
		if templatesJSON {
			return printJSON(cmd, list)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SLUG\tNAME\tCATEGORY\tLAYOUT")
		for _, t := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Slug, t.Name, t.Category, t.DefaultConfig["layout"])
		}
		return tw.Flush()
	},
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(templatesCmd)
}
