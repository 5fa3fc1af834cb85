package services

import (
	"errors"
	"fmt"

	"visaflow/internal/repositories"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrInvalidField   = errors.New("invalid status field")
	ErrInvalidValue   = errors.New("invalid status value")
	ErrInvalidState   = errors.New("invalid state")
	ErrConflict       = errors.New("conflict")
	ErrAuthentication = errors.New("invalid email or password")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// translate maps repository sentinels onto service errors.
func translate(err error, entity string, id int) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return &NotFoundError{Entity: entity, ID: id}
	case errors.Is(err, repositories.ErrConflict):
		return fmt.Errorf("%s %d: %w", entity, id, ErrConflict)
	}
	return err
}
