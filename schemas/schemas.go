// Package schemas embeds the JSON Schemas for model replies and resume templates.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// Schema file names.
const (
	AnalysisResult = "analysis_result.schema.json"
	ATSCheck       = "ats_check.schema.json"
	Template       = "template.schema.json"
)

// Get returns the content of an embedded schema.
func Get(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not found: %w", name, err)
	}
	return string(data), nil
}

// Names lists every embedded schema.
func Names() []string {
	entries, _ := files.ReadDir(".")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}
