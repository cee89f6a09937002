package config

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

const (
	// EnvStorageStagingDir overrides the upload staging directory.
	EnvStorageStagingDir = "STORAGE_STAGING_DIR"

	// EnvStorageMaxUploadSize overrides the maximum upload size.
	EnvStorageMaxUploadSize = "STORAGE_MAX_UPLOAD_SIZE"
)

// StorageConfig contains upload staging configuration.
type StorageConfig struct {
	// StagingDir is the directory holding uploads while an ingestion runs.
	// Default: "uploads"
	StagingDir string `toml:"staging_dir"`

	// MaxUploadSize caps uploaded files, in human-readable form ("64MiB").
	// The same cap applies to document uploads and digitization images.
	MaxUploadSize    string `toml:"max_upload_size"`
	maxUploadSizeVal int64
}

// MaxUploadSizeBytes returns the parsed upload size cap in bytes.
func (c *StorageConfig) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *StorageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.StagingDir != "" {
		c.StagingDir = overlay.StagingDir
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
}

func (c *StorageConfig) loadDefaults() {
	if c.StagingDir == "" {
		c.StagingDir = "uploads"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "64MiB"
	}
}

func (c *StorageConfig) loadEnv() {
	if v := os.Getenv(EnvStorageStagingDir); v != "" {
		c.StagingDir = v
	}
	if v := os.Getenv(EnvStorageMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *StorageConfig) validate() error {
	size, err := units.RAMInBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	return nil
}
