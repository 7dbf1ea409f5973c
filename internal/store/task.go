package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
//
// Every read and write is scoped by the owning user's ID. A task that exists
// but belongs to another user is reported exactly like a missing one, with
// ErrTaskNotFound.
type TaskStore interface {
	// Create inserts a new task and assigns its ID. CreatedAt and UpdatedAt
	// are kept if already set.
	Create(ctx context.Context, task *domain.Task) error

	// GetByIDForUser retrieves the task with the given ID owned by userID.
	// Returns ErrTaskNotFound if there is none.
	GetByIDForUser(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error)

	// Update writes the mutable fields of task (name, description, status,
	// due date, updated_at), matching on both task.ID and task.UserID.
	// Returns ErrTaskNotFound if no row matched.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteForUser permanently removes the task with the given ID owned by userID.
	// Returns ErrTaskNotFound if no row matched.
	DeleteForUser(ctx context.Context, userID uuid.UUID, id int64) error

	// ListByUser returns one page of userID's tasks matching filter, ordered
	// by created_at in the filter's direction with ties broken by ascending ID,
	// together with the total number of matching tasks across all pages.
	ListByUser(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) ([]domain.Task, int64, error)
}
