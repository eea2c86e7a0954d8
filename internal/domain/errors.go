// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")

	// Session errors
	ErrUnauthorized = errors.New("unauthorized")

	// Mutation errors
	ErrValidation   = errors.New("validation failed")
	ErrAccessDenied = errors.New("access denied")
	ErrStore        = errors.New("store error")

	// Cache errors
	ErrCacheMiss = errors.New("cache miss")
)

// ValidationError carries human readable messages keyed by field name.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

// NewValidationError builds a ValidationError with a single message for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// AccessDeniedError is returned when the actor neither owns the row nor belongs
// to the company or team that owns it.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }

// StoreError wraps a failed insert, update, delete or select.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }
