package api

import (
	"fmt"
	"time"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UpdateUserRequest defines the payload for updating the caller's account.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
// Date is a calendar day ("2006-01-02") or an RFC 3339 timestamp.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=1"`
	Date        string `json:"date"        validate:"required"`
	Interval    *int   `json:"interval,omitempty"  validate:"omitempty,gt=0"`
	Sequence    *int   `json:"sequence,omitempty"  validate:"omitempty,gt=0"`
	Emergency   *bool  `json:"emergency,omitempty"`
	Status      string `json:"status,omitempty"    validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// UpdateTaskRequest defines the payload for partial task updates. Absent
// fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Date        *string `json:"date,omitempty"`
	Interval    *int    `json:"interval,omitempty"  validate:"omitempty,gt=0"`
	Sequence    *int    `json:"sequence,omitempty"  validate:"omitempty,gt=0"`
	Emergency   *bool   `json:"emergency,omitempty"`
	Status      *string `json:"status,omitempty"    validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// dateLayouts are the accepted due-date formats, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate parses a due date in one of the accepted layouts.
func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
}
