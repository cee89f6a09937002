// Package staging manages the transient on-disk lifecycle of uploaded files.
// The transport layer stages an upload before the ingestion pipeline runs;
// the staged file is owned by that request until it is released.
package staging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tesisarchive/tesis-service/internal/config"

	"github.com/google/uuid"
)

// System stages uploaded files in a dedicated directory.
type System struct {
	dir    string
	logger *slog.Logger
}

// New creates a staging system rooted at the configured directory,
// creating it if necessary.
func New(cfg *config.StorageConfig, logger *slog.Logger) (*System, error) {
	if cfg.StagingDir == "" {
		return nil, fmt.Errorf("staging_dir required")
	}

	absPath, err := filepath.Abs(cfg.StagingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve staging_dir: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("create staging_dir: %w", err)
	}

	return &System{
		dir:    absPath,
		logger: logger.With("system", "staging"),
	}, nil
}

// Dir returns the absolute staging directory path.
func (s *System) Dir() string {
	return s.dir
}

// Stage copies src into the staging directory under a unique name and
// returns a handle owning the staged file.
func (s *System) Stage(src io.Reader, filename string) (*File, error) {
	name := fmt.Sprintf("%s-%s", uuid.New().String(), sanitizeFilename(filename))
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close staged file: %w", err)
	}

	return &File{path: path, logger: s.logger}, nil
}

// File is a staged upload owned by a single request. Remove releases it
// and may be called on every exit path.
type File struct {
	path   string
	logger *slog.Logger
}

// Path returns the absolute path of the staged file.
func (f *File) Path() string {
	return f.path
}

// Remove deletes the staged file. It is idempotent; a missing file is not
// an error, and removal failures are logged rather than propagated.
func (f *File) Remove() {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.logger.Warn("failed to remove staged file", "path", f.path, "error", err)
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
