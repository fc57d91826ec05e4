package core

import (
	"errors"
	"strings"
)

// Domain errors returned by the Service and the stores.
var (
	// ErrNotFound is returned when no person matches a lookup.
	ErrNotFound = errors.New("person not found")

	// ErrAlreadyExists is returned when a person with the same business key exists.
	ErrAlreadyExists = errors.New("person already exists")

	// ErrInvalidInput is returned for malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidColor is returned for a color token outside the enumeration.
	ErrInvalidColor = errors.New("unknown color")
)

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// ValidationErrors collects all field problems of one input.
// It matches ErrInvalidInput with errors.Is.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Error()
	}
	return strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalidInput) true for validation failures.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}
