package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// TaskFilter selects a date/status predicate for task listings.
type TaskFilter string

// Valid listing filters.
const (
	FilterToday     TaskFilter = "today"
	FilterWeek      TaskFilter = "week"
	FilterMonth     TaskFilter = "month"
	FilterCompleted TaskFilter = "completed"
	FilterAll       TaskFilter = "all"
)

// TaskOrder selects the due-date sort direction for task listings.
type TaskOrder string

// Valid listing orders.
const (
	OrderAsc  TaskOrder = "asc"
	OrderDesc TaskOrder = "desc"
)

// IsValidFilter reports whether the string names a known filter.
func IsValidFilter(filter string) bool {
	switch TaskFilter(filter) {
	case FilterToday, FilterWeek, FilterMonth, FilterCompleted, FilterAll:
		return true
	}
	return false
}

// IsValidOrder reports whether the string names a known order.
func IsValidOrder(order string) bool {
	switch TaskOrder(order) {
	case OrderAsc, OrderDesc:
		return true
	}
	return false
}

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Date        time.Time
	Interval    *int
	Sequence    *int
	Emergency   *bool
	Status      domain.TaskStatus
}

// UpdateTaskInput carries a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Date        *time.Time
	Interval    *int
	Sequence    *int
	Emergency   *bool
	Status      *domain.TaskStatus
}

// TaskService implements the task lifecycle: create, list with filters,
// partial update, completion toggle, delete, and the recurrence reset pass.
type TaskService struct {
	tasks   store.TaskStore
	logger  *slog.Logger
	nowFunc func() time.Time // Injectable for testing
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		tasks:   tasks,
		logger:  logger.With(slog.String("component", "task_service")),
		nowFunc: time.Now,
	}
}

// Create validates and persists a new task for ownerID. When a recurrence
// interval is present, the sequence counter starts at zero regardless of
// what the caller supplied.
func (s *TaskService) Create(ctx context.Context, ownerID uint, input CreateTaskInput) (*domain.Task, error) {
	status := input.Status
	if status == "" {
		status = domain.TaskStatusPending
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Status:      status,
		Interval:    input.Interval,
		Sequence:    input.Sequence,
		Emergency:   input.Emergency,
		UserID:      ownerID,
	}

	if task.Interval != nil {
		zero := 0
		task.Sequence = &zero
	}

	if err := task.Validate(s.nowFunc()); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("persist task: %w", err)
	}
	return task, nil
}

// ListAll returns the owner's tasks narrowed by filter and sorted by due
// date. It first runs the recurrence reset pass for the owner, so listing
// is a side-effecting read: overdue recurring tasks are advanced before
// the query runs.
func (s *TaskService) ListAll(ctx context.Context, ownerID uint, filter, order string) ([]domain.Task, error) {
	if !IsValidFilter(filter) {
		return nil, ErrInvalidFilter
	}
	if !IsValidOrder(order) {
		return nil, ErrInvalidOrder
	}

	if err := s.ResetIntervals(ctx, ownerID); err != nil {
		return nil, err
	}

	opts := s.filterOptions(TaskFilter(filter))
	opts.Descending = TaskOrder(order) == OrderDesc

	tasks, err := s.tasks.ListByOwner(ctx, ownerID, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// filterOptions translates a filter name into store query constraints.
// The week window starts on Monday; week and month filters are open-ended
// toward the future.
func (s *TaskService) filterOptions(filter TaskFilter) store.ListOptions {
	now := s.nowFunc()
	startOfDay := domain.StartOfDay(now)

	switch filter {
	case FilterToday:
		endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
		return store.ListOptions{DateFrom: &startOfDay, DateTo: &endOfDay}
	case FilterWeek:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		startOfWeek := startOfDay.AddDate(0, 0, -(weekday - 1))
		return store.ListOptions{DateFrom: &startOfWeek}
	case FilterMonth:
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return store.ListOptions{DateFrom: &startOfMonth}
	case FilterCompleted:
		completed := domain.TaskStatusCompleted
		return store.ListOptions{Status: &completed}
	default:
		return store.ListOptions{}
	}
}

// GetByID returns the task if owned by ownerID, store.ErrTaskNotFound
// otherwise.
func (s *TaskService) GetByID(ctx context.Context, id, ownerID uint) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id, ownerID)
}

// Update applies a partial update to an owned task. Absent fields keep
// their current values. The due-date-not-in-the-past rule is enforced at
// creation only and is deliberately not re-checked here.
func (s *TaskService) Update(ctx context.Context, id, ownerID uint, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Date != nil {
		task.Date = *input.Date
	}
	if input.Interval != nil {
		task.Interval = input.Interval
	}
	if input.Sequence != nil {
		task.Sequence = input.Sequence
	}
	if input.Emergency != nil {
		task.Emergency = input.Emergency
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domain.NewValidationError("status", "must be PENDING, IN_PROGRESS or COMPLETED", domain.ErrInvalidStatus)
		}
		task.Status = *input.Status
	}

	if task.Title == "" {
		return nil, domain.NewValidationError("title", "is required", domain.ErrValidation)
	}
	if task.Description == "" {
		return nil, domain.NewValidationError("description", "is required", domain.ErrValidation)
	}
	if input.Interval != nil && *input.Interval <= 0 {
		return nil, domain.NewValidationError("interval", "must be a positive integer", domain.ErrValidation)
	}
	if input.Sequence != nil && *input.Sequence < 0 {
		return nil, domain.NewValidationError("sequence", "must not be negative", domain.ErrValidation)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Complete toggles the completion state of an owned task. A COMPLETED task
// flips back to PENDING with its sequence decremented; anything else flips
// to COMPLETED with its sequence incremented. Calling it twice returns the
// task to its original status and sequence.
func (s *TaskService) Complete(ctx context.Context, id, ownerID uint) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	seq := task.SequenceValue()
	if task.Status == domain.TaskStatusCompleted {
		task.Status = domain.TaskStatusPending
		seq--
	} else {
		task.Status = domain.TaskStatusCompleted
		seq++
	}
	task.Sequence = &seq

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes an owned task. Deleting a task that does not exist, or
// that belongs to someone else, is a success, not an error.
func (s *TaskService) Delete(ctx context.Context, id, ownerID uint) error {
	return s.tasks.Delete(ctx, id, ownerID)
}

// ResetIntervals advances recurring tasks whose due date has elapsed.
// For each of the owner's tasks with a non-null, non-zero interval and a
// due date at or before now:
//
//   - COMPLETED: status goes back to PENDING and the date advances by
//     interval days.
//   - PENDING: the date advances by interval days and the sequence resets
//     to zero.
//
// IN_PROGRESS tasks are untouched. The new date is computed from the old
// due date, not from now, so a task overdue by several periods advances a
// single period per pass; it catches up one listing at a time.
func (s *TaskService) ResetIntervals(ctx context.Context, ownerID uint) error {
	tasks, err := s.tasks.ListByOwner(ctx, ownerID, store.ListOptions{Recurring: true})
	if err != nil {
		return fmt.Errorf("list recurring tasks: %w", err)
	}

	now := s.nowFunc()
	for i := range tasks {
		task := &tasks[i]
		if task.Date.After(now) {
			continue
		}

		switch task.Status {
		case domain.TaskStatusCompleted:
			task.Status = domain.TaskStatusPending
			task.Date = task.Date.AddDate(0, 0, *task.Interval)
		case domain.TaskStatusPending:
			task.Date = task.Date.AddDate(0, 0, *task.Interval)
			zero := 0
			task.Sequence = &zero
		default:
			continue
		}

		// Writes are best-effort: a task lost to a concurrent delete
		// is skipped, not fatal.
		if err := s.tasks.Update(ctx, task); err != nil {
			s.logger.Warn("failed to reset recurring task",
				"error", err,
				"task_id", task.ID,
				"user_id", ownerID)
		}
	}
	return nil
}
