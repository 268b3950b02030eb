// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Public groups handlers for the anonymous read-only surface. Responses
// are cached in Redis since they are identical for every visitor; the
// cache is cleared on any admin mutation.
type Public struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	settings   *store.SiteSettingStore
	feedCache  *cache.FeedCache
}

// NewPublic creates a new Public handler group.
func NewPublic(posts *store.PostStore, categories *store.CategoryStore, settings *store.SiteSettingStore, feedCache *cache.FeedCache) *Public {
	return &Public{
		posts:      posts,
		categories: categories,
		settings:   settings,
		feedCache:  feedCache,
	}
}

// publicPost is a post detail response with the Markdown content
// rendered to HTML.
type publicPost struct {
	models.Post
	HTML string `json:"html"`
}

// PostsList returns one page of publicly visible posts: published
// status with a publish date that has passed, newest first. Accepts
// page, limit, and category (slug) query parameters. The publication
// window cannot be relaxed by any parameter.
func (p *Public) PostsList(w http.ResponseWriter, r *http.Request) {
	page, limit, fields := parsePagination(r, defaultPageLimit)
	if len(fields) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	categorySlug := r.URL.Query().Get("category")

	key := cache.ListKey(page, limit, categorySlug)
	if body, ok := p.feedCache.Get(r.Context(), key); ok {
		writeCached(w, body)
		return
	}

	posts, pagination, err := p.posts.List(r.Context(), store.PostFilter{
		Page:         page,
		Limit:        limit,
		CategorySlug: categorySlug,
		PublicOnly:   true,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	p.writeAndCache(w, r, key, listResponse{Items: posts, Pagination: pagination})
}

// PostGet returns a single publicly visible post by slug, with its
// categories and rendered HTML. Drafts, scheduled posts, and unknown
// slugs are indistinguishable 404s.
func (p *Public) PostGet(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")

	key := cache.PostKey(postSlug)
	if body, ok := p.feedCache.Get(r.Context(), key); ok {
		writeCached(w, body)
		return
	}

	post, err := p.posts.GetPublicBySlug(r.Context(), postSlug)
	if err != nil {
		respondError(w, err)
		return
	}

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		respondError(w, err)
		return
	}

	p.writeAndCache(w, r, key, publicPost{Post: *post, HTML: html})
}

// CategoriesList returns all categories with counts over publicly
// visible posts only.
func (p *Public) CategoriesList(w http.ResponseWriter, r *http.Request) {
	key := cache.CategoriesKey()
	if body, ok := p.feedCache.Get(r.Context(), key); ok {
		writeCached(w, body)
		return
	}

	categories, err := p.categories.List(r.Context(), true)
	if err != nil {
		respondError(w, err)
		return
	}

	p.writeAndCache(w, r, key, map[string]any{"items": categories})
}

// Site returns the public site metadata (title, description, paging
// defaults).
func (p *Public) Site(w http.ResponseWriter, r *http.Request) {
	stored, err := p.settings.All(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored.Merge(models.DefaultSiteSettings()))
}

// writeAndCache serializes v once, stores it in the feed cache, and
// writes it to the client.
func (p *Public) writeAndCache(w http.ResponseWriter, r *http.Request, key string, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		respondError(w, err)
		return
	}

	p.feedCache.Set(r.Context(), key, buf.Bytes())
	writeCached(w, buf.Bytes())
}

// writeCached writes a pre-serialized JSON body.
func writeCached(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
