// Package pdfgen synthesizes PDF documents from plain text for the
// digitization pipeline.
package pdfgen

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/go-pdf/fpdf"
)

// Layout constants for synthesized documents. Content width is the page
// width minus both margins; text exceeding one page flows onto additional
// pages via automatic page breaks.
const (
	pageMargin = 50.0
	fontSize   = 12.0
	lineHeight = 14.0
)

// Synthesizer produces a well-formed PDF byte stream from plain text.
type Synthesizer interface {
	Render(text string) ([]byte, error)
}

type synthesizer struct {
	logger *slog.Logger
}

// New creates a text-to-PDF synthesizer.
func New(logger *slog.Logger) Synthesizer {
	return &synthesizer{
		logger: logger.With("system", "pdfgen"),
	}
}

func (s *synthesizer) Render(text string) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.AddPage()
	doc.SetFont("Helvetica", "", fontSize)

	width, _ := doc.GetPageSize()
	translate := doc.UnicodeTranslatorFromDescriptor("")
	doc.MultiCell(width-2*pageMargin, lineHeight, translate(text), "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	s.logger.Debug("document synthesized", "pages", doc.PageCount(), "bytes", buf.Len())
	return buf.Bytes(), nil
}
