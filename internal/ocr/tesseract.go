package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tesisarchive/tesis-service/internal/config"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements Engine using the gosseract client.
// Each recognition uses a fresh client; gosseract clients are not safe for
// concurrent reuse.
type Tesseract struct {
	language string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewTesseract constructs a Tesseract-backed OCR engine from configuration.
func NewTesseract(cfg *config.OCRConfig, logger *slog.Logger) *Tesseract {
	return &Tesseract{
		language: cfg.Language,
		timeout:  cfg.TimeoutDuration(),
		logger:   logger.With("system", "ocr"),
	}
}

// Recognize runs Tesseract over the image at imagePath and returns the
// extracted plain text. The call is bounded by the configured timeout;
// gosseract has no context support, so an expired call is abandoned and
// its result discarded.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	start := time.Now()
	go func() {
		text, err := t.recognize(imagePath)
		done <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w (limit %s)", ErrTimeout, t.timeout)
		}
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		t.logger.Debug("recognition complete",
			"image", imagePath,
			"chars", len(r.text),
			"elapsed", time.Since(start),
		)
		return r.text, nil
	}
}

func (t *Tesseract) recognize(imagePath string) (text string, err error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("set language %q: %w", t.language, err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	raw, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}

	text = strings.TrimSpace(raw)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
