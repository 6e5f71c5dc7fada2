package store

import (
	"context"
	"time"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// ListOptions narrows and orders a task listing. Zero values mean "no
// constraint"; the owner scope is always applied by the store itself.
type ListOptions struct {
	// DateFrom/DateTo bound the due date (inclusive) when non-nil.
	DateFrom *time.Time
	DateTo   *time.Time

	// Status restricts results to a single status when non-nil.
	Status *domain.TaskStatus

	// Recurring restricts results to tasks with a non-null, non-zero
	// recurrence interval.
	Recurring bool

	// Descending orders by due date descending instead of ascending.
	Descending bool
}

// TaskStore defines the interface for task persistence. Every method that
// addresses an individual task takes the owner's user ID alongside the task
// ID; a task owned by someone else behaves exactly like a missing one.
type TaskStore interface {
	// Create saves a new task for its UserID owner.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by (id, ownerID).
	// Returns ErrTaskNotFound if absent or owned by another user.
	GetByID(ctx context.Context, id, ownerID uint) (*domain.Task, error)

	// ListByOwner returns the owner's tasks narrowed by opts, ordered by
	// due date.
	ListByOwner(ctx context.Context, ownerID uint, opts ListOptions) ([]domain.Task, error)

	// Update persists changes to a task, scoped by (task.ID, task.UserID).
	// Returns ErrTaskNotFound if absent or owned by another user.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by (id, ownerID). Deleting a task that does
	// not exist (or is not owned by ownerID) succeeds silently.
	Delete(ctx context.Context, id, ownerID uint) error
}
