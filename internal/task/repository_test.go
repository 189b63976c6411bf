package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskapi/internal/database/dbtest"
	"github.com/redmonkez12/taskapi/internal/user"
)

func newUser(t *testing.T, db bun.IDB, name string) uuid.UUID {
	t.Helper()

	u, err := user.NewRepository(db).Create(context.Background(), name+"@x.com", name, "$argon2id$hash")
	require.NoError(t, err)
	return u.ID
}

func ptr[T any](v T) *T {
	return &v
}

func TestRepository_CreateAndList(t *testing.T) {
	db := dbtest.NewSQLite(t)
	repo := NewRepository(db)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	empty, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := repo.Create(ctx, alice, "first")
	require.NoError(t, err)
	assert.False(t, first.Done)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	second, err := repo.Create(ctx, alice, "second")
	require.NoError(t, err)
	_, err = repo.Create(ctx, bob, "bob's")
	require.NoError(t, err)

	tasks, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
}

func TestRepository_Update(t *testing.T) {
	db := dbtest.NewSQLite(t)
	repo := NewRepository(db)
	ctx := context.Background()
	alice := newUser(t, db, "alice")

	created, err := repo.Create(ctx, alice, "buy milk")
	require.NoError(t, err)

	updated, err := repo.Update(ctx, alice, created.ID, Patch{Done: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "buy milk", updated.Title)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	updated, err = repo.Update(ctx, alice, created.ID, Patch{Title: ptr("buy oat milk")})
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "buy oat milk", updated.Title)

	stored, err := repo.get(ctx, repo.db, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Title, stored.Title)
	assert.Equal(t, updated.Done, stored.Done)
}

func TestRepository_OwnershipIsolation(t *testing.T) {
	db := dbtest.NewSQLite(t)
	repo := NewRepository(db)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	owned, err := repo.Create(ctx, bob, "bob's task")
	require.NoError(t, err)

	_, err = repo.get(ctx, repo.db, alice, owned.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(ctx, alice, owned.ID, Patch{Done: ptr(true)})
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, alice, owned.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := repo.get(ctx, repo.db, bob, owned.ID)
	require.NoError(t, err)
	assert.False(t, stored.Done)
	assert.Equal(t, "bob's task", stored.Title)
}

func TestRepository_DeleteTwice(t *testing.T) {
	db := dbtest.NewSQLite(t)
	repo := NewRepository(db)
	ctx := context.Background()
	alice := newUser(t, db, "alice")

	created, err := repo.Create(ctx, alice, "once")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, alice, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, alice, created.ID), ErrNotFound)

	_, err = repo.Update(ctx, alice, uuid.New(), Patch{Done: ptr(false)})
	assert.ErrorIs(t, err, ErrNotFound)
}
