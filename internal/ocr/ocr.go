// Package ocr provides text extraction from scanned images for the
// digitization pipeline. The default engine is Tesseract via gosseract.
package ocr

import (
	"context"
	"errors"
)

// Engine extracts plain text from an image file on disk.
type Engine interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Engine errors.
var (
	// ErrTimeout indicates recognition did not complete within the configured bound.
	ErrTimeout = errors.New("ocr: recognition timed out")

	// ErrNoText indicates recognition produced no usable text.
	ErrNoText = errors.New("ocr: no text recognized")
)
