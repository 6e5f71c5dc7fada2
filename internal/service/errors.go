package service

import "errors"

// Service-level errors.
var (
	// ErrInvalidFilter is returned when a listing filter is not one of
	// today, week, month, completed, all.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidOrder is returned when a listing order is not asc or desc.
	ErrInvalidOrder = errors.New("invalid order")
)
