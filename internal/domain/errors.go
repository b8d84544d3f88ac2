package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when a row does not exist
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// ErrWorldNotFound is a failed world lookup by id or share code
type ErrWorldNotFound struct {
	Ref string
}

func (e *ErrWorldNotFound) Error() string {
	return fmt.Sprintf("world not found: %s", e.Ref)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// PermissionError is an action the caller's role does not allow
type PermissionError struct {
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("not permitted: %s", e.Action)
}

func NewPermissionError(action string) *PermissionError {
	return &PermissionError{Action: action}
}

var (
	ErrAlreadyOwner      = errors.New("user already owns a world")
	ErrAlreadyBound      = errors.New("user is already bound to this world")
	ErrNotBound          = errors.New("user is not bound to this world")
	ErrMemberNotFound    = errors.New("member not found in world")
	ErrEmptyCatalog      = errors.New("catalog must contain at least one vendor with items")
	ErrCatalogItemExists = errors.New("item already exists for vendor")
	ErrCatalogNotFound   = errors.New("vendor or item not found in catalog")
	ErrCodeExhausted     = errors.New("could not allocate a unique world code")
	ErrCodeTaken         = errors.New("world code already taken")
)

// IsNotFound reports whether err is any of the not-found shapes
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	var wnf *ErrWorldNotFound
	return errors.As(err, &nf) || errors.As(err, &wnf) ||
		errors.Is(err, ErrMemberNotFound) || errors.Is(err, ErrCatalogNotFound)
}
