// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Admin groups the admin API handlers and their dependencies.
type Admin struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	settings   *store.SiteSettingStore
	feedCache  *cache.FeedCache
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(posts *store.PostStore, categories *store.CategoryStore, settings *store.SiteSettingStore, feedCache *cache.FeedCache) *Admin {
	return &Admin{
		posts:      posts,
		categories: categories,
		settings:   settings,
		feedCache:  feedCache,
	}
}

// listResponse is the shape of paginated listings.
type listResponse struct {
	Items      []models.Post    `json:"items"`
	Pagination store.Pagination `json:"pagination"`
}

// postRequest is the create/update body for posts. PublishedAt is only
// honored on create (scheduling); updates derive it from the status
// transition.
type postRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	Status      string     `json:"status"`
	CategoryIDs []int64    `json:"categoryIds"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// --- Posts ---

// PostsList returns one page of posts of any status, newest first.
// Accepts page, limit, status (draft|published|all) and category (id)
// query parameters.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	page, limit, fields := parsePagination(r, defaultPageLimit)

	status := r.URL.Query().Get("status")
	switch status {
	case "", store.StatusAll, string(models.PostStatusDraft), string(models.PostStatusPublished):
	default:
		fields = append(fields, models.FieldError{Field: "status", Message: "must be draft, published, or all"})
	}

	var categoryID int64
	if raw := r.URL.Query().Get("category"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			fields = append(fields, models.FieldError{Field: "category", Message: "must be a positive integer"})
		} else {
			categoryID = n
		}
	}

	if len(fields) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	posts, pagination, err := a.posts.List(r.Context(), store.PostFilter{
		Page:       page,
		Limit:      limit,
		Status:     status,
		CategoryID: categoryID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Items: posts, Pagination: pagination})
}

// PostGet returns one post of any status by id, with its categories.
func (a *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	post, err := a.posts.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// PostCreate creates a post owned by the authenticated user.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if fields := validatePost(req.Title, req.Content, req.Excerpt, models.PostStatus(req.Status), req.CategoryIDs); len(fields) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	post, err := a.posts.Create(r.Context(), &models.Post{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Status:      models.PostStatus(req.Status),
		PublishedAt: req.PublishedAt,
		UserID:      sess.UserID,
	}, req.CategoryIDs)
	if err != nil {
		respondError(w, err)
		return
	}

	a.feedCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, post)
}

// PostUpdate rewrites a post, replacing its category set wholesale:
// omitting categoryIds leaves the post with zero categories.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if fields := validatePost(req.Title, req.Content, req.Excerpt, models.PostStatus(req.Status), req.CategoryIDs); len(fields) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	post, err := a.posts.Update(r.Context(), id, store.UpdatePost{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Status:      models.PostStatus(req.Status),
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	a.feedCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, post)
}

// PostDelete removes a post and its association rows.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := a.posts.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	a.feedCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Categories ---

// categoryRequest is the create/update body for categories. Updates and
// deletes carry the id in the body rather than the path.
type categoryRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoriesList returns all categories with post counts over every
// status.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List(r.Context(), false)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": categories})
}

// CategoryCreate creates a category.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if fields := validateCategory(req.Name, req.Description); len(fields) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	category, err := a.categories.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	a.feedCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, category)
}

// CategoryUpdate renames a category; the returned slug may have changed
// and callers must refresh any cached URLs from it.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	fields := validateCategory(req.Name, req.Description)
	if req.ID < 1 {
		fields = append(fields, models.FieldError{Field: "id", Message: "must be a positive integer"})
	}
	if len(fields) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	category, err := a.categories.Update(r.Context(), req.ID, req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	a.feedCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, category)
}

// CategoryDelete removes a category and its association rows; posts
// referencing it are untouched.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.ID < 1 {
		writeError(w, http.StatusBadRequest, "validation failed", []models.FieldError{
			{Field: "id", Message: "must be a positive integer"},
		})
		return
	}

	if err := a.categories.Delete(r.Context(), req.ID); err != nil {
		respondError(w, err)
		return
	}

	a.feedCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Site settings ---

// SiteGet returns the stored site settings overlaid on the defaults.
func (a *Admin) SiteGet(w http.ResponseWriter, r *http.Request) {
	stored, err := a.settings.All(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored.Merge(models.DefaultSiteSettings()))
}

// SiteUpdate upserts site settings. Unknown keys are ignored.
func (a *Admin) SiteUpdate(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	defaults := models.DefaultSiteSettings()
	accepted := make(map[string]string)
	for k, v := range req {
		if _, ok := defaults[k]; ok {
			accepted[k] = v
		}
	}

	if err := a.settings.SetMany(r.Context(), accepted); err != nil {
		respondError(w, err)
		return
	}

	a.feedCache.InvalidateAll(r.Context())
	a.SiteGet(w, r)
}

// parseID reads the {id} path parameter as a positive integer, writing
// a validation error and returning false on failure.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "validation failed", []models.FieldError{
			{Field: "id", Message: "must be a positive integer"},
		})
		return 0, false
	}
	return id, true
}
