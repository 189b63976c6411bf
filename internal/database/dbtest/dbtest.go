// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskapi/internal/database"
)

// NewSQLite returns a migrated in-memory SQLite database that is closed when the test ends.
func NewSQLite(t testing.TB) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, driver, err := database.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)

	_, err = database.Migrate(ctx, db.DB, driver)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
