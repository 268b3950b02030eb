// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the Inkwell API.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/models"
)

// errorBody is the standard error response shape.
type errorBody struct {
	Error   string              `json:"error"`
	Details []models.FieldError `json:"details,omitempty"`
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

// writeError writes the standard error body.
func writeError(w http.ResponseWriter, status int, msg string, details []models.FieldError) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// respondError maps domain errors to HTTP responses. Unexpected errors
// are logged and surfaced as a generic 500 with no internal detail.
func respondError(w http.ResponseWriter, err error) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, models.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", nil)
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

// decodeJSON reads the request body into dst, returning a validation
// error for malformed JSON.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.NewValidationError(models.FieldError{
			Field: "body", Message: "invalid JSON",
		})
	}
	return nil
}
