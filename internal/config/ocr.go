package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// EnvOCRLanguage overrides the OCR recognition language.
	EnvOCRLanguage = "OCR_LANGUAGE"

	// EnvOCRTimeout overrides the OCR call timeout.
	EnvOCRTimeout = "OCR_TIMEOUT"
)

// OCRConfig contains text recognition configuration for the digitization path.
type OCRConfig struct {
	// Language is the Tesseract language code used for recognition.
	// Default: "spa"
	Language string `toml:"language"`

	// Timeout bounds a single recognition call.
	Timeout string `toml:"timeout"`
}

// TimeoutDuration parses and returns the recognition timeout as a time.Duration.
func (c *OCRConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the OCR configuration.
func (c *OCRConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *OCRConfig) Merge(overlay *OCRConfig) {
	if overlay.Language != "" {
		c.Language = overlay.Language
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *OCRConfig) loadDefaults() {
	if c.Language == "" {
		c.Language = "spa"
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
}

func (c *OCRConfig) loadEnv() {
	if v := os.Getenv(EnvOCRLanguage); v != "" {
		c.Language = v
	}
	if v := os.Getenv(EnvOCRTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *OCRConfig) validate() error {
	if c.Language == "" {
		return fmt.Errorf("language required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
