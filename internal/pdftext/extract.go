// Package pdftext turns binary PDF documents into plain text.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-analyzer/internal/apperr"
)

// magic is the header every PDF file starts with.
var magic = []byte("%PDF-")

// LooksLikePDF reports whether data starts with the PDF header.
func LooksLikePDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), magic)
}

// Result holds extracted text and basic document facts.
type Result struct {
	Text  string
	Pages int
}

// Extractor extracts text layers from PDFs.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses data off the calling goroutine and returns its plain text.
// A document with no recoverable text (for example a scanned image) fails with
// an extraction error rather than returning an empty string. If ctx ends first
// the parse is abandoned and an upstream-unavailable error is returned.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := extract(data)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, ctx.Err(), "PDF parsing did not finish in time")
	case o := <-done:
		return o.res, o.err
	}
}

func extract(data []byte) (res *Result, err error) {
	if len(data) == 0 {
		return nil, apperr.New(apperr.KindExtraction, "the uploaded document is empty")
	}
	if !LooksLikePDF(data) {
		return nil, apperr.New(apperr.KindExtraction, "the uploaded document is not a PDF")
	}

	// The parser panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = apperr.Wrap(apperr.KindExtraction, fmt.Errorf("%v", r), "could not read the PDF")
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExtraction, err, "could not read the PDF")
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExtraction, err, "could not extract text from the PDF")
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return nil, apperr.Wrap(apperr.KindExtraction, err, "could not extract text from the PDF")
	}

	text := normalize(buf.String())
	if text == "" {
		return nil, apperr.New(apperr.KindExtraction,
			"no text layer found in the PDF; scanned documents are not supported")
	}

	return &Result{Text: text, Pages: reader.NumPage()}, nil
}

// normalize trims trailing space per line and drops NUL bytes left by some encoders.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
