package models

import "github.com/cockroachdb/errors"

// Error categories. Concrete errors are marked with one of these so callers
// can branch with errors.Is while the message stays client readable.
var (
	ErrValidation            = errors.New("validation error")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrInsufficientInventory = errors.New("insufficient inventory")
)

// Leaf errors with their own status handling. errors.Is against a marked
// error compares its mark, so these stay unmarked and the constructors below
// attach the category.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrEmailTaken         = errors.New("Email already exists")
)

func NewInvalidCredentialsError() error {
	return errors.Mark(ErrInvalidCredentials, ErrUnauthenticated)
}

// NewEmailTakenError is a conflict that is still reported as 400.
func NewEmailTakenError() error {
	return errors.Mark(ErrEmailTaken, ErrConflict)
}

func NewValidationError(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidation)
}

func NewNotFoundError(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

func NewConflictError(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrConflict)
}

func NewInsufficientInventoryError(ticketID int64) error {
	return errors.Mark(errors.Newf("Not enough tickets for Ticket ID %d", ticketID), ErrInsufficientInventory)
}
