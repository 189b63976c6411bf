package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]Task, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Task), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, userID uuid.UUID, title string) (*Task, error) {
	args := m.Called(ctx, userID, title)
	return args.Get(0).(*Task), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, userID, taskID uuid.UUID, patch Patch) (*Task, error) {
	args := m.Called(ctx, userID, taskID, patch)
	if t := args.Get(0); t != nil {
		return t.(*Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	return m.Called(ctx, userID, taskID).Error(0)
}

func TestService_UpdateRejectsEmptyPatch(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), Patch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_PassesCallerThrough(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)
	ctx := context.Background()
	userID, taskID := uuid.New(), uuid.New()
	patch := Patch{Done: ptr(true)}

	store.On("Update", ctx, userID, taskID, patch).Return(nil, ErrNotFound)
	store.On("Delete", ctx, userID, taskID).Return(ErrNotFound)
	store.On("ListByUser", ctx, userID).Return([]Task{}, nil)

	_, err := svc.Update(ctx, userID, taskID, patch)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, userID, taskID), ErrNotFound)

	tasks, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	store.AssertExpectations(t)
}
