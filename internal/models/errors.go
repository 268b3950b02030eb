// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"strings"
)

// Sentinel errors returned by store methods. Handlers map them to
// 404 and 409 responses respectively.
var (
	// ErrNotFound is returned when an id or slug does not reference an
	// existing row, or when a public read targets a post that is not
	// publicly visible.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write loses a race against a
	// concurrent writer and hits a uniqueness constraint (slug or
	// category name).
	ErrConflict = errors.New("conflict")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates input validation failures. It is produced
// before any write is attempted.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError wraps field errors into a ValidationError.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
