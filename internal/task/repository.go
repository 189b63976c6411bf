package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskapi/internal/database"
)

// ErrNotFound covers both a missing task and one owned by someone else.
var ErrNotFound = errors.New("task not found")

// Repository handles task persistence. Every statement that targets a
// single task filters on id and user_id together.
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns the user's tasks, newest first
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Task, error) {
	var rows []database.Task
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, *mapDBTaskToModel(&rows[i]))
	}
	return tasks, nil
}

// Create inserts a task for userID
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, title string) (*Task, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	row := &database.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Done:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return mapDBTaskToModel(row), nil
}

// Update applies patch to the task owned by userID and returns the stored row.
func (r *Repository) Update(ctx context.Context, userID, taskID uuid.UUID, patch Patch) (*Task, error) {
	var updated *Task

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewUpdate().
			Model((*database.Task)(nil)).
			Set("updated_at = ?", time.Now().UTC().Truncate(time.Microsecond)).
			Where("id = ?", taskID).
			Where("user_id = ?", userID)
		if patch.Title != nil {
			q = q.Set("title = ?", *patch.Title)
		}
		if patch.Done != nil {
			q = q.Set("done = ?", *patch.Done)
		}

		res, err := q.Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		updated, err = r.get(ctx, tx, userID, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the task owned by userID
func (r *Repository) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*database.Task)(nil)).
		Where("id = ?", taskID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) get(ctx context.Context, db bun.IDB, userID, taskID uuid.UUID) (*Task, error) {
	row := new(database.Task)
	err := db.NewSelect().
		Model(row).
		Where("id = ?", taskID).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return mapDBTaskToModel(row), nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapDBTaskToModel(row *database.Task) *Task {
	return &Task{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Done:      row.Done,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
