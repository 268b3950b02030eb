// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category represents a content category. Posts and categories are
// related many-to-many through the posts_to_categories join table.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// PostCount is populated by CategoryStore.List from the join table.
	PostCount int `json:"post_count"`
}
