package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Driver identifies the SQL backend behind a DATABASE_URL.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// ParseURL works out which driver serves the URL and the DSN to hand to it.
// postgres:// and postgresql:// go to lib/pq, sqlite: and file: to sqliteshim.
func ParseURL(url string) (Driver, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "sqlite:"):
		dsn := strings.TrimPrefix(strings.TrimPrefix(url, "sqlite:"), "//")
		if dsn == "" {
			return "", "", fmt.Errorf("sqlite url has no path: %q", url)
		}
		return DriverSQLite, dsn, nil
	case strings.HasPrefix(url, "file:"):
		return DriverSQLite, url, nil
	default:
		return "", "", fmt.Errorf("unsupported database url scheme: %q", url)
	}
}

// Open connects to the database behind url, verifies the connection and
// returns a Bun DB configured with the matching dialect.
func Open(ctx context.Context, url string) (*bun.DB, Driver, error) {
	driver, dsn, err := ParseURL(url)
	if err != nil {
		return nil, "", err
	}

	var sqlDB *sql.DB
	switch driver {
	case DriverPostgres:
		sqlDB, err = sql.Open("postgres", dsn)
	case DriverSQLite:
		sqlDB, err = sql.Open(sqliteshim.ShimName, dsn)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer; an in-memory database only lives on one connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	// Verify connection
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, "", fmt.Errorf("failed to ping database: %w", err)
	}

	return NewBunDB(sqlDB, driver), driver, nil
}

// NewBunDB creates a new Bun DB instance from an existing sql.DB connection
func NewBunDB(sqlDB *sql.DB, driver Driver) *bun.DB {
	if driver == DriverSQLite {
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
	return bun.NewDB(sqlDB, pgdialect.New())
}
