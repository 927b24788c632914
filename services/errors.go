package services

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned when a caller who is not the badge's
	// creator attempts to update or delete it. System-owned badges have no
	// creator, so they always fail this check.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrBadgeNotFound is returned for unknown badge ids.
	ErrBadgeNotFound = errors.New("badge not found")

	// ErrBadgeNameTaken is returned when a badge name is already in use.
	ErrBadgeNameTaken = errors.New("badge name already taken")

	// ErrInvalidCriteria is returned when a criteria descriptor fails
	// validation at creation or update time.
	ErrInvalidCriteria = errors.New("invalid badge criteria")

	// ErrInvalidDelta is returned for non-positive point grants.
	ErrInvalidDelta = errors.New("points delta must be positive")
)

// ConflictError is returned when deleting a badge that has already been
// awarded. It carries the exact holder count for the caller's message.
type ConflictError struct {
	Holders int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("badge is held by %d user(s) and cannot be deleted", e.Holders)
}
