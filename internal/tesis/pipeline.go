package tesis

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tesisarchive/tesis-service/internal/autores"
	"github.com/tesisarchive/tesis-service/internal/ocr"
	"github.com/tesisarchive/tesis-service/internal/pdfgen"
	"github.com/tesisarchive/tesis-service/internal/staging"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Pipeline orchestrates document ingestion: validation, duplicate checks,
// optional OCR plus PDF synthesis, persistence, and author association.
// The staged upload is released on every exit path.
type Pipeline struct {
	store   System
	autores autores.System
	engine  ocr.Engine
	synth   pdfgen.Synthesizer
	logger  *slog.Logger
}

// NewPipeline creates an ingestion pipeline over the given collaborators.
func NewPipeline(store System, assoc autores.System, engine ocr.Engine, synth pdfgen.Synthesizer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:   store,
		autores: assoc,
		engine:  engine,
		synth:   synth,
		logger:  logger.With("system", "ingestion"),
	}
}

// Upload ingests a ready-made PDF: duplicate pre-check, insert with the raw
// uploaded bytes, then author association.
func (p *Pipeline) Upload(ctx context.Context, cmd DepositCommand, staged *staging.File) (*Receipt, error) {
	defer staged.Remove()

	if err := p.ensureFresh(ctx, cmd.ID); err != nil {
		return nil, err
	}

	archivo, err := os.ReadFile(staged.Path())
	if err != nil {
		return nil, fmt.Errorf("read staged file: %w", err)
	}
	if len(archivo) == 0 {
		return nil, fmt.Errorf("%w: document required", ErrValidation)
	}

	if pages, err := pageCount(archivo); err != nil {
		p.logger.Warn("uploaded file failed pdf inspection", "id_tesis", cmd.ID, "error", err)
	} else {
		p.logger.Info("document received", "id_tesis", cmd.ID, "pages", pages, "bytes", len(archivo))
	}

	if err := p.store.Insert(ctx, cmd, archivo); err != nil {
		return nil, err
	}

	p.associate(ctx, cmd)

	return &Receipt{
		Message: "thesis uploaded and author associated",
		IDTesis: cmd.ID,
	}, nil
}

// Digitize ingests a scanned image: duplicate pre-check, OCR extraction,
// PDF synthesis from the recognized text, then the same persistence and
// association steps as Upload.
func (p *Pipeline) Digitize(ctx context.Context, cmd DepositCommand, staged *staging.File) (*Receipt, error) {
	defer staged.Remove()

	if err := p.ensureFresh(ctx, cmd.ID); err != nil {
		return nil, err
	}

	text, err := p.engine.Recognize(ctx, staged.Path())
	if err != nil {
		return nil, fmt.Errorf("%w: ocr: %v", ErrExternal, err)
	}

	archivo, err := p.synth.Render(text)
	if err != nil {
		return nil, fmt.Errorf("%w: pdf synthesis: %v", ErrExternal, err)
	}

	p.logger.Info("document digitized", "id_tesis", cmd.ID, "chars", len(text), "bytes", len(archivo))

	if err := p.store.Insert(ctx, cmd, archivo); err != nil {
		return nil, err
	}

	p.associate(ctx, cmd)

	return &Receipt{
		Message: "thesis digitized and author associated",
		IDTesis: cmd.ID,
	}, nil
}

// ensureFresh rejects ids that already exist. The check is best-effort; a
// race between two ingestions is resolved by the store's primary key, which
// Insert reports as the same conflict error.
func (p *Pipeline) ensureFresh(ctx context.Context, id int) error {
	exists, err := p.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: id %d", ErrConflict, id)
	}
	return nil
}

// associate records the author link for a freshly inserted thesis. A failure
// here does not undo the insert; the thesis row and the association are
// independently observable outcomes.
func (p *Pipeline) associate(ctx context.Context, cmd DepositCommand) {
	_, err := p.autores.Create(ctx, autores.CreateCommand{
		IDEstudiante: cmd.IDEstudiante,
		IDTesis:      cmd.ID,
	})
	if err != nil {
		p.logger.Error("author association failed",
			"id_tesis", cmd.ID,
			"id_estudiante", cmd.IDEstudiante,
			"error", err,
		)
	}
}

func pageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}
