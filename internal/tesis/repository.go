package tesis

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tesisarchive/tesis-service/pkg/repository"
)

const metadataColumns = `id, nombre, id_encargado, id_tutor, id_sede, fecha, estado`

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a thesis repository backed by the relational store.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "tesis"),
	}
}

func scanTesis(s repository.Scanner) (Tesis, error) {
	var t Tesis
	err := s.Scan(
		&t.ID,
		&t.Nombre,
		&t.IDEncargado,
		&t.IDTutor,
		&t.IDSede,
		&t.Fecha,
		&t.Estado,
	)
	return t, err
}

func (r *repo) List(ctx context.Context) ([]Tesis, error) {
	q := `SELECT ` + metadataColumns + ` FROM tesis ORDER BY id`

	rows, err := repository.QueryMany(ctx, r.db, q, nil, scanTesis)
	if err != nil {
		return nil, fmt.Errorf("query theses: %w", err)
	}
	return rows, nil
}

func (r *repo) Find(ctx context.Context, id int) (*Tesis, error) {
	q := `SELECT ` + metadataColumns + ` FROM tesis WHERE id = $1`

	t, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanTesis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}
	return &t, nil
}

func (r *repo) Search(ctx context.Context, fragment string) ([]Tesis, error) {
	q := `SELECT ` + metadataColumns + ` FROM tesis WHERE nombre ILIKE $1 ORDER BY id`

	rows, err := repository.QueryMany(ctx, r.db, q, []any{"%" + fragment + "%"}, scanTesis)
	if err != nil {
		return nil, fmt.Errorf("search theses: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows, nil
}

func (r *repo) Exists(ctx context.Context, id int) (bool, error) {
	q := `SELECT 1 FROM tesis WHERE id = $1`

	var one int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check thesis existence: %w", err)
	}
	return true, nil
}

func (r *repo) Insert(ctx context.Context, cmd DepositCommand, archivo []byte) error {
	q := `INSERT INTO tesis (id, id_encargado, id_sede, id_tutor, nombre, fecha, estado, archivo_pdf)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, q,
		cmd.ID, cmd.IDEncargado, cmd.IDSede, cmd.IDTutor,
		cmd.Nombre, cmd.Fecha, cmd.Estado, archivo,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrConflict)
	}

	r.logger.Info("thesis inserted", "id", cmd.ID, "nombre", cmd.Nombre, "bytes", len(archivo))
	return nil
}

func (r *repo) Download(ctx context.Context, id int) ([]byte, error) {
	q := `SELECT archivo_pdf FROM tesis WHERE id = $1`

	var archivo []byte
	err := r.db.QueryRowContext(ctx, q, id).Scan(&archivo)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}

	// An absent document and a zero-length one are the same condition.
	if len(archivo) == 0 {
		return nil, ErrNotFound
	}
	return archivo, nil
}

func (r *repo) Update(ctx context.Context, id int, cmd UpdateCommand) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)

	appendSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if cmd.Nombre != nil {
		appendSet("nombre", *cmd.Nombre)
	}
	if cmd.Fecha != nil {
		appendSet("fecha", *cmd.Fecha)
	}
	if cmd.Estado != nil {
		appendSet("estado", *cmd.Estado)
	}
	if len(cmd.Archivo) > 0 {
		appendSet("archivo_pdf", cmd.Archivo)
	}

	if len(set) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE tesis SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	if err := repository.ExecExpectOne(ctx, r.db, q, args...); err != nil {
		return repository.MapError(err, ErrNotFound, ErrConflict)
	}

	r.logger.Info("thesis updated", "id", id, "fields", len(set))
	return nil
}

// Delete removes the thesis and its association rows in one transaction,
// children before parent. Absence is determined by the affected-row count
// of the thesis delete, not a pre-check.
func (r *repo) Delete(ctx context.Context, id int) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM alumno_tesis WHERE id_tesis = $1`, id); err != nil {
			return struct{}{}, fmt.Errorf("delete associations: %w", err)
		}
		return struct{}{}, repository.ExecExpectOne(ctx, tx, `DELETE FROM tesis WHERE id = $1`, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrConflict)
	}

	r.logger.Info("thesis deleted", "id", id)
	return nil
}
