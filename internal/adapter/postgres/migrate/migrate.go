// Package migrate applies the goose migrations to a PostgreSQL database.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
)

// Up applies every pending migration found in fsys and returns the applied results.
func Up(ctx context.Context, dsn string, fsys fs.FS) ([]*goose.MigrationResult, error) {
	var results []*goose.MigrationResult
	err := withProvider(ctx, dsn, fsys, func(p *goose.Provider) error {
		var err error
		results, err = p.Up(ctx)
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	})
	return results, err
}

// Status reports the state of every migration found in fsys.
func Status(ctx context.Context, dsn string, fsys fs.FS) ([]*goose.MigrationStatus, error) {
	var statuses []*goose.MigrationStatus
	err := withProvider(ctx, dsn, fsys, func(p *goose.Provider) error {
		var err error
		statuses, err = p.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		return nil
	})
	return statuses, err
}

// withProvider opens a database/sql handle (goose requires *sql.DB) and runs fn
// with a goose provider. goose.NewProvider correctly handles $$-delimited
// PL/pgSQL functions, unlike the legacy goose.Up which splits on semicolons.
func withProvider(ctx context.Context, dsn string, fsys fs.FS, fn func(*goose.Provider) error) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	return fn(provider)
}
