package domain

import (
	"time"
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task represents a single tracked item owned by a user. UserID is set at
// creation and never changes; every query against tasks is keyed by
// (id, user_id) so one user's tasks are invisible to another.
type Task struct {
	ID          uint       `gorm:"primaryKey"              json:"id"`
	Title       string     `gorm:"not null"                json:"title"`
	Description string     `gorm:"not null"                json:"description"`
	Date        time.Time  `gorm:"not null"                json:"date"`
	Status      TaskStatus `gorm:"not null;default:PENDING" json:"status"`
	Interval    *int       `json:"interval,omitempty"`
	Sequence    *int       `json:"sequence,omitempty"`
	Emergency   *bool      `json:"emergency,omitempty"`
	UserID      uint       `gorm:"index;not null"          json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsEmergency reports whether the emergency flag is present and set.
func (t *Task) IsEmergency() bool {
	return t.Emergency != nil && *t.Emergency
}

// IsRecurring reports whether the task carries a non-zero recurrence interval.
func (t *Task) IsRecurring() bool {
	return t.Interval != nil && *t.Interval != 0
}

// SequenceValue returns the sequence counter, treating absence as zero.
func (t *Task) SequenceValue() int {
	if t.Sequence == nil {
		return 0
	}
	return *t.Sequence
}

// StartOfDay strips the time-of-day component in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Validate checks the semantic rules that apply when a task is created.
// The due date must fall on today or later; this rule is deliberately not
// re-checked on updates.
func (t *Task) Validate(now time.Time) error {
	if t.Title == "" {
		return NewValidationError("title", "is required", ErrValidation)
	}
	if t.Description == "" {
		return NewValidationError("description", "is required", ErrValidation)
	}
	if t.Date.IsZero() {
		return NewValidationError("date", "is required", ErrValidation)
	}
	if StartOfDay(t.Date).Before(StartOfDay(now)) {
		return NewValidationError("date", "must be today or later", ErrValidation)
	}
	if t.Interval != nil && *t.Interval <= 0 {
		return NewValidationError("interval", "must be a positive integer", ErrValidation)
	}
	if t.Sequence != nil && *t.Sequence < 0 {
		return NewValidationError("sequence", "must not be negative", ErrValidation)
	}
	if t.Status != "" && !t.Status.IsValid() {
		return NewValidationError("status", "must be PENDING, IN_PROGRESS or COMPLETED", ErrInvalidStatus)
	}
	return nil
}
