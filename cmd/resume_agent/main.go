// Package main provides the resume_agent CLI: the HTTP API server plus
// one-shot analysis, extraction and rendering commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Resume analysis and resume builder service",
	Long: `resume_agent scores PDF resumes against job postings and builds resumes from
editable projects rendered through HTML templates.

Configuration is read from an optional JSON file (--config), then environment
variables (a .env file is loaded when present), then command-line flags.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
