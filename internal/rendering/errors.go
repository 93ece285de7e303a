// Package rendering turns structured resume data into HTML through
// data-only templates and prints that HTML to PDF.
package rendering

import "strings"

// TemplateError reports a template file that cannot be read or fails the
// template schema. Slug is empty when the file could not be identified.
type TemplateError struct {
	Slug   string
	Reason string
	Err    error
}

func (e *TemplateError) Error() string {
	var b strings.Builder
	b.WriteString("template")
	if e.Slug != "" {
		b.WriteString(" " + e.Slug)
	}
	b.WriteString(": " + e.Reason)
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *TemplateError) Unwrap() error { return e.Err }

// RenderError is a failure while filling a template or printing it.
// Stage names the section title or "pdf".
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return "render " + e.Stage + ": " + e.Err.Error()
}

func (e *RenderError) Unwrap() error { return e.Err }
