// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// StatusAll disables the status filter in PostFilter.
const StatusAll = "all"

// PostStore handles all post-related database operations, including
// slug resolution and maintenance of the post-category association set.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.status, p.published_at, p.user_id, p.created_at, p.updated_at`

// postReturning is postColumns without the table alias, for RETURNING clauses.
const postReturning = `id, title, slug, content, excerpt, status, published_at, user_id, created_at, updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{Categories: []models.Category{}}
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Status,
		&p.PublishedAt, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PostFilter describes a filtered, paginated post listing. Page and
// Limit must already be validated by the caller (positive, Limit ≤ 50).
type PostFilter struct {
	Page  int
	Limit int

	// Status filters by publishing state; empty or StatusAll means no
	// filter. Ignored when PublicOnly is set.
	Status string

	// CategoryID and CategorySlug filter by category membership; at most
	// one should be set. Both compose with the status filter (AND).
	CategoryID   int64
	CategorySlug string

	// PublicOnly hard-codes the publication window: status = published
	// AND published_at <= now. It cannot be relaxed by other fields.
	PublicOnly bool
}

// Pagination describes the page of a listing relative to the full
// filtered result set.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// List returns one page of posts matching the filter, newest first,
// each annotated with its categories via a single batched join query.
// Ordering is by created_at for admin listings and published_at for
// public ones, with id as a deterministic tiebreaker. A page beyond the
// last returns an empty slice, not an error.
func (s *PostStore) List(ctx context.Context, f PostFilter) ([]models.Post, Pagination, error) {
	base := psql.Select().From("posts p")

	switch {
	case f.CategoryID != 0:
		base = base.Join("posts_to_categories pc ON pc.post_id = p.id").
			Where(squirrel.Eq{"pc.category_id": f.CategoryID})
	case f.CategorySlug != "":
		base = base.Join("posts_to_categories pc ON pc.post_id = p.id").
			Join("categories c ON c.id = pc.category_id").
			Where(squirrel.Eq{"c.slug": f.CategorySlug})
	}

	if f.PublicOnly {
		base = base.Where(squirrel.Eq{"p.status": string(models.PostStatusPublished)}).
			Where(squirrel.Expr("p.published_at <= NOW()"))
	} else if f.Status != "" && f.Status != StatusAll {
		base = base.Where(squirrel.Eq{"p.status": f.Status})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, Pagination{}, fmt.Errorf("count posts: %w", err)
	}

	order := "p.created_at DESC, p.id DESC"
	if f.PublicOnly {
		order = "p.published_at DESC, p.id DESC"
	}

	listSQL, listArgs, err := base.Column(postColumns).
		OrderBy(order).
		Limit(uint64(f.Limit)).
		Offset(uint64((f.Page - 1) * f.Limit)).
		ToSql()
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, Pagination{}, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, Pagination{}, fmt.Errorf("list posts: %w", err)
	}

	if err := s.attachCategories(ctx, posts); err != nil {
		return nil, Pagination{}, err
	}

	pagination := Pagination{
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: (total + f.Limit - 1) / f.Limit,
	}
	return posts, pagination, nil
}

// attachCategories populates Categories for all posts with one batched
// join query instead of one query per post.
func (s *PostStore) attachCategories(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	index := make(map[int64]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
	}

	query, args, err := psql.
		Select("pc.post_id", "c.id", "c.name", "c.slug", "c.description", "c.created_at", "c.updated_at").
		From("posts_to_categories pc").
		Join("categories c ON c.id = pc.category_id").
		Where(squirrel.Eq{"pc.post_id": ids}).
		OrderBy("c.name, c.id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build categories query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load post categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var c models.Category
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Categories = append(posts[i].Categories, c)
		}
	}
	return rows.Err()
}

// GetByID retrieves a post of any status by id, with its categories.
// Returns models.ErrNotFound if the id does not exist.
func (s *PostStore) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	single := []models.Post{*p}
	if err := s.attachCategories(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// GetPublicBySlug retrieves a publicly visible post by slug: published
// status and a publish date that has passed. Drafts, scheduled posts,
// and unknown slugs all come back as models.ErrNotFound so the public
// surface cannot distinguish them.
func (s *PostStore) GetPublicBySlug(ctx context.Context, postSlug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		WHERE p.slug = $1 AND p.status = 'published' AND p.published_at <= NOW()
	`, postSlug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post %q: %w", postSlug, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}

	single := []models.Post{*p}
	if err := s.attachCategories(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// Create inserts a new post. The slug is resolved from the title inside
// the same transaction as the insert and association writes. An empty
// excerpt defaults to a truncation of the content. For published posts
// a missing PublishedAt becomes the current time (a future value means
// the post is scheduled); drafts always get a null PublishedAt.
func (s *PostStore) Create(ctx context.Context, p *models.Post, categoryIDs []int64) (*models.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create post: %w", err)
	}
	defer tx.Rollback()

	resolved, err := slug.Resolve(slug.Generate(p.Title), slugTaken(ctx, tx, "posts", 0))
	if err != nil {
		return nil, err
	}

	publishedAt := p.PublishedAt
	if p.Status == models.PostStatusPublished {
		if publishedAt == nil {
			now := time.Now()
			publishedAt = &now
		}
	} else {
		publishedAt = nil
	}

	excerpt := p.Excerpt
	if excerpt == "" {
		excerpt = models.DefaultExcerpt(p.Content)
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, status, published_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postReturning,
		p.Title, resolved, p.Content, excerpt, string(p.Status), publishedAt, p.UserID,
	)
	created, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create post: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := insertAssociations(ctx, tx, created.ID, categoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create post: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("commit create post: %w", err)
	}

	single := []models.Post{*created}
	if err := s.attachCategories(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// UpdatePost carries the full replacement state for a post update.
// CategoryIDs is the complete desired category set: existing association
// rows are replaced wholesale, so a nil or empty set leaves the post
// with zero categories.
type UpdatePost struct {
	Title       string
	Content     string
	Excerpt     string
	Status      models.PostStatus
	CategoryIDs []int64
}

// Update rewrites a post. The slug is re-resolved only when the
// normalized title no longer matches the stored slug's base, excluding
// the post itself from the collision check. Moving to published keeps
// an already-set publish date, otherwise stamps the current time;
// moving to draft clears it.
func (s *PostStore) Update(ctx context.Context, id int64, upd UpdatePost) (*models.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update post: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.id = $1 FOR UPDATE`, id)
	existing, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock post for update: %w", err)
	}

	newSlug := existing.Slug
	if base := slug.Generate(upd.Title); !slug.HasBase(existing.Slug, base) {
		newSlug, err = slug.Resolve(base, slugTaken(ctx, tx, "posts", id))
		if err != nil {
			return nil, err
		}
	}

	var publishedAt *time.Time
	if upd.Status == models.PostStatusPublished {
		publishedAt = existing.PublishedAt
		if publishedAt == nil {
			now := time.Now()
			publishedAt = &now
		}
	}

	excerpt := upd.Excerpt
	if excerpt == "" {
		excerpt = models.DefaultExcerpt(upd.Content)
	}

	row = tx.QueryRowContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4, status = $5,
			published_at = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+postReturning,
		upd.Title, newSlug, upd.Content, excerpt, string(upd.Status), publishedAt, id,
	)
	updated, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update post: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	// Replace-all association semantics: delete everything, insert the
	// supplied set.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM posts_to_categories WHERE post_id = $1`, id); err != nil {
		return nil, fmt.Errorf("clear post categories: %w", err)
	}
	if err := insertAssociations(ctx, tx, id, upd.CategoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update post: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("commit update post: %w", err)
	}

	single := []models.Post{*updated}
	if err := s.attachCategories(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// Delete removes a post by id. Association rows go with it via the
// foreign-key cascade; categories themselves are untouched. Returns
// models.ErrNotFound if the id does not exist.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("post %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// insertAssociations creates one join row per category id. An empty set
// inserts nothing. An unknown category id surfaces as a validation
// error, keeping the transaction free of partial writes.
func insertAssociations(ctx context.Context, tx *sql.Tx, postID int64, categoryIDs []int64) error {
	for _, categoryID := range categoryIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO posts_to_categories (post_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT (post_id, category_id) DO NOTHING
		`, postID, categoryID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return models.NewValidationError(models.FieldError{
					Field:   "categoryIds",
					Message: fmt.Sprintf("category %d does not exist", categoryID),
				})
			}
			return fmt.Errorf("associate post %d with category %d: %w", postID, categoryID, err)
		}
	}
	return nil
}

// slugTaken builds a slug.Taken checker that looks for the candidate in
// the given table within the current transaction, excluding the row
// being updated so an entity never collides with itself.
func slugTaken(ctx context.Context, tx *sql.Tx, table string, excludeID int64) slug.Taken {
	return func(candidate string) (bool, error) {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE slug = $1 AND id <> $2)`,
			candidate, excludeID,
		).Scan(&exists)
		return exists, err
	}
}
