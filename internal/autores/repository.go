package autores

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tesisarchive/tesis-service/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an association repository backed by the relational store.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "autores"),
	}
}

func scanAsociacion(s repository.Scanner) (Asociacion, error) {
	var a Asociacion
	err := s.Scan(&a.ID, &a.IDEstudiante, &a.IDTesis)
	return a, err
}

func (r *repo) List(ctx context.Context) ([]Asociacion, error) {
	q := `SELECT id, id_estudiante, id_tesis FROM alumno_tesis ORDER BY id`

	rows, err := repository.QueryMany(ctx, r.db, q, nil, scanAsociacion)
	if err != nil {
		return nil, fmt.Errorf("query associations: %w", err)
	}
	return rows, nil
}

func (r *repo) Find(ctx context.Context, id int) (*Asociacion, error) {
	q := `SELECT id, id_estudiante, id_tesis FROM alumno_tesis WHERE id = $1`

	a, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanAsociacion)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrInvalid)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Asociacion, error) {
	if cmd.IDEstudiante == 0 || cmd.IDTesis == 0 {
		return nil, fmt.Errorf("%w: id_estudiante and id_tesis required", ErrInvalid)
	}

	q := `INSERT INTO alumno_tesis (id_estudiante, id_tesis)
		VALUES ($1, $2)
		RETURNING id, id_estudiante, id_tesis`

	a, err := repository.QueryOne(ctx, r.db, q, []any{cmd.IDEstudiante, cmd.IDTesis}, scanAsociacion)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrInvalid)
	}

	r.logger.Info("association created", "id", a.ID, "id_estudiante", a.IDEstudiante, "id_tesis", a.IDTesis)
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id int) error {
	q := `DELETE FROM alumno_tesis WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, r.db, q, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrInvalid)
	}

	r.logger.Info("association deleted", "id", id)
	return nil
}
