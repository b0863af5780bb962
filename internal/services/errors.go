package services

import (
	"errors"
	"fmt"
)

// Failure kinds the handler layer maps to HTTP statuses. Every failure a
// service returns wraps exactly one of these, so callers can always tell
// "already voted" from "bad input" from "storage down" — no generic alerts.
var (
	ErrUnauthenticated = errors.New("sign in required")
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateVote   = errors.New("already voted")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrStorage         = errors.New("storage unavailable")
)

// storageErr wraps a database failure. Mutations are idempotent at the
// constraint level, so callers may retry the whole operation.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
