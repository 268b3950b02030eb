package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"
)

// Validation limits for content and category fields.
const (
	maxTitleLen       = 255
	maxNameLen        = 100
	maxExcerptLen     = 500
	maxDescriptionLen = 500

	// maxPageLimit caps page sizes; larger values are a validation
	// error, not clamped.
	maxPageLimit = 50

	defaultPageLimit = 10
)

// validatePost checks post input fields and returns every failure found.
func validatePost(title, content, excerpt string, status models.PostStatus, categoryIDs []int64) []models.FieldError {
	var fields []models.FieldError

	if strings.TrimSpace(title) == "" {
		fields = append(fields, models.FieldError{Field: "title", Message: "is required"})
	} else if utf8.RuneCountInString(title) > maxTitleLen {
		fields = append(fields, models.FieldError{Field: "title", Message: "is too long (max 255 characters)"})
	}

	if strings.TrimSpace(content) == "" {
		fields = append(fields, models.FieldError{Field: "content", Message: "is required"})
	}

	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		fields = append(fields, models.FieldError{Field: "excerpt", Message: "is too long (max 500 characters)"})
	}

	if !status.Valid() {
		fields = append(fields, models.FieldError{Field: "status", Message: "must be draft or published"})
	}

	for _, id := range categoryIDs {
		if id <= 0 {
			fields = append(fields, models.FieldError{Field: "categoryIds", Message: "must be positive integers"})
			break
		}
	}

	return fields
}

// validateCategory checks category input fields and returns every failure found.
func validateCategory(name, description string) []models.FieldError {
	var fields []models.FieldError

	if strings.TrimSpace(name) == "" {
		fields = append(fields, models.FieldError{Field: "name", Message: "is required"})
	} else if utf8.RuneCountInString(name) > maxNameLen {
		fields = append(fields, models.FieldError{Field: "name", Message: "is too long (max 100 characters)"})
	}

	if utf8.RuneCountInString(description) > maxDescriptionLen {
		fields = append(fields, models.FieldError{Field: "description", Message: "is too long (max 500 characters)"})
	}

	return fields
}

// parsePagination reads page and limit query parameters. Both must be
// positive integers and limit may not exceed maxPageLimit; out-of-range
// values are reported as validation errors, never clamped.
func parsePagination(r *http.Request, defaultLimit int) (page, limit int, fields []models.FieldError) {
	page, limit = 1, defaultLimit

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields = append(fields, models.FieldError{Field: "page", Message: "must be a positive integer"})
		} else {
			page = n
		}
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil || n < 1:
			fields = append(fields, models.FieldError{Field: "limit", Message: "must be a positive integer"})
		case n > maxPageLimit:
			fields = append(fields, models.FieldError{Field: "limit", Message: "may not exceed 50"})
		default:
			limit = n
		}
	}

	return page, limit, fields
}
