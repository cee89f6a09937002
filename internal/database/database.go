// Package database provides database connection construction and schema
// migration for the service's PostgreSQL store.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tesisarchive/tesis-service/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open establishes a database connection pool using the pgx stdlib driver
// and verifies connectivity within the configured timeout.
func Open(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeoutDuration())
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
