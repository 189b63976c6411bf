package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every pending embedded migration and returns the number applied.
func Migrate(ctx context.Context, db *sql.DB, driver Driver) (int, error) {
	dialect := goose.DialectPostgres
	if driver == DriverSQLite {
		dialect = goose.DialectSQLite3
	}

	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	return len(results), nil
}
