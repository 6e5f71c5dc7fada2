package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// TaskStore implements store.TaskStore using gorm. Every query carries the
// owner's user ID in the WHERE clause; there is no id-only lookup.
type TaskStore struct {
	db *gorm.DB
}

// Ensure TaskStore implements the interface.
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a new TaskStore.
func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create saves a new task for its owner.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by (id, ownerID).
func (s *TaskStore) GetByID(ctx context.Context, id, ownerID uint) (*domain.Task, error) {
	var task domain.Task
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// ListByOwner returns the owner's tasks narrowed by opts.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID uint, opts store.ListOptions) ([]domain.Task, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", ownerID)

	if opts.DateFrom != nil {
		q = q.Where("date >= ?", *opts.DateFrom)
	}
	if opts.DateTo != nil {
		q = q.Where("date <= ?", *opts.DateTo)
	}
	if opts.Status != nil {
		q = q.Where("status = ?", *opts.Status)
	}
	if opts.Recurring {
		q = q.Where("interval IS NOT NULL AND interval <> 0")
	}

	order := "date ASC"
	if opts.Descending {
		order = "date DESC"
	}

	var tasks []domain.Task
	if err := q.Order(order).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update persists changes to a task, scoped by (task.ID, task.UserID).
// Zero and nil fields are written as-is, which makes clearing optional
// fields possible; callers load the record first and mutate it.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"date":        task.Date,
			"status":      task.Status,
			"interval":    task.Interval,
			"sequence":    task.Sequence,
			"emergency":   task.Emergency,
		})
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by (id, ownerID). Absent rows are not an error.
func (s *TaskStore) Delete(ctx context.Context, id, ownerID uint) error {
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&domain.Task{}).Error
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
