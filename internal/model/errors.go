package model

import (
	"errors"
	"fmt"
)

// Store errors.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("unique constraint violated")
)

// Authentication and authorization errors.
var (
	ErrMissingToken      = errors.New("missing bearer token")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrUserNotFound      = errors.New("user not found")
	ErrUpstreamVerifier  = errors.New("identity verifier unavailable")
	ErrDirectoryConflict = errors.New("directory conflict")
	ErrForbidden         = errors.New("forbidden")
)

// Unique fields reported by ConflictError.
const (
	FieldExternalSubjectID = "external_subject_id"
	FieldEmail             = "email"
)

// ConflictError reports which unique field a write collided on.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conflict on %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("conflict on %s", e.Field)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Is makes every ConflictError match ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ConflictField returns the colliding field of a *ConflictError in err's chain.
func ConflictField(err error) (string, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Field, true
	}
	return "", false
}
