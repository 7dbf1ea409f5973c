package mocks

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. Methods without a
// function override return Err (and zero values).
type MockTaskStore struct {
	CreateFn         func(ctx context.Context, task *domain.Task) error
	GetByIDForUserFn func(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error)
	UpdateFn         func(ctx context.Context, task *domain.Task) error
	DeleteForUserFn  func(ctx context.Context, userID uuid.UUID, id int64) error
	ListByUserFn     func(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) ([]domain.Task, int64, error)

	// Default error returned when no function override is set
	Err error

	// Call counters
	CreateCalls     atomic.Int32
	GetCalls        atomic.Int32
	UpdateCalls     atomic.Int32
	DeleteCalls     atomic.Int32
	ListByUserCalls atomic.Int32
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.CreateCalls.Add(1)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return m.Err
}

// GetByIDForUser implements the TaskStore interface
func (m *MockTaskStore) GetByIDForUser(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	m.GetCalls.Add(1)
	if m.GetByIDForUserFn != nil {
		return m.GetByIDForUserFn(ctx, userID, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return nil, store.ErrTaskNotFound
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.UpdateCalls.Add(1)
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	return m.Err
}

// DeleteForUser implements the TaskStore interface
func (m *MockTaskStore) DeleteForUser(ctx context.Context, userID uuid.UUID, id int64) error {
	m.DeleteCalls.Add(1)
	if m.DeleteForUserFn != nil {
		return m.DeleteForUserFn(ctx, userID, id)
	}
	return m.Err
}

// ListByUser implements the TaskStore interface
func (m *MockTaskStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) ([]domain.Task, int64, error) {
	m.ListByUserCalls.Add(1)
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, filter)
	}
	return nil, 0, m.Err
}
