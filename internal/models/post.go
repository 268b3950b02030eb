// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether the status is one of the known states.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post represents a blog post. Content is Markdown source; the public
// API renders it to HTML on read.
type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	Status      PostStatus `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	UserID      uuid.UUID  `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Categories is populated by store methods from the join table.
	Categories []Category `json:"categories"`
}

// VisibleAt reports whether the post is publicly visible at the given
// time: published status and a publish date that has passed. A post may
// be marked published with a future PublishedAt (scheduled).
func (p *Post) VisibleAt(t time.Time) bool {
	return p.Status == PostStatusPublished && p.PublishedAt != nil && !p.PublishedAt.After(t)
}

// excerptRunes is how much of the content an auto-generated excerpt keeps.
const excerptRunes = 200

// DefaultExcerpt derives an excerpt from content when the caller did not
// supply one: the first excerptRunes runes, with an ellipsis when truncated.
func DefaultExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptRunes {
		return content
	}
	return string(runes[:excerptRunes]) + "…"
}
