package task

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence the task service needs
type Store interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Task, error)
	Create(ctx context.Context, userID uuid.UUID, title string) (*Task, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, patch Patch) (*Task, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
}

// Service handles task operations for an authenticated user. The caller's
// id is always passed in explicitly.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Task, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, title string) (*Task, error) {
	return s.store.Create(ctx, userID, title)
}

// Update returns ErrNotFound when the task is missing or not owned by userID.
func (s *Service) Update(ctx context.Context, userID, taskID uuid.UUID, patch Patch) (*Task, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}
	return s.store.Update(ctx, userID, taskID, patch)
}

// Delete returns ErrNotFound when the task is missing or not owned by userID.
func (s *Service) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	return s.store.Delete(ctx, userID, taskID)
}
