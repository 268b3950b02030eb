// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name, each annotated with a
// post count computed in a single grouped aggregate query. With
// publicOnly set the count covers only publicly visible posts
// (published and past their publish date); otherwise it covers every
// associated post regardless of status.
func (s *CategoryStore) List(ctx context.Context, publicOnly bool) ([]models.Category, error) {
	join := `LEFT JOIN posts p ON p.id = pc.post_id`
	if publicOnly {
		join += ` AND p.status = 'published' AND p.published_at <= NOW()`
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at,
		       COUNT(p.id) AS post_count
		FROM categories c
		LEFT JOIN posts_to_categories pc ON pc.category_id = c.id
		`+join+`
		GROUP BY c.id
		ORDER BY c.name, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt,
			&c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// GetByID retrieves a category by id. Returns models.ErrNotFound if absent.
func (s *CategoryStore) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category, resolving its slug from the name inside
// the same transaction as the insert. A duplicate name surfaces as
// models.ErrConflict via the unique constraint.
func (s *CategoryStore) Create(ctx context.Context, name, description string) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create category: %w", err)
	}
	defer tx.Rollback()

	resolved, err := slug.Resolve(slug.Generate(name), slugTaken(ctx, tx, "categories", 0))
	if err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		name, resolved, description,
	)
	created, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create category: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create category: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("commit create category: %w", err)
	}
	return created, nil
}

// Update renames a category. The slug is re-resolved only when the
// normalized name no longer matches the stored slug's base, excluding
// the category itself from the collision check — callers must refresh
// any cached URLs from the returned slug.
func (s *CategoryStore) Update(ctx context.Context, id int64, name, description string) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update category: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id)
	existing, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock category for update: %w", err)
	}

	newSlug := existing.Slug
	if base := slug.Generate(name); !slug.HasBase(existing.Slug, base) {
		newSlug, err = slug.Resolve(base, slugTaken(ctx, tx, "categories", id))
		if err != nil {
			return nil, err
		}
	}

	row = tx.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+categoryColumns,
		name, newSlug, description, id,
	)
	updated, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update category: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update category: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("commit update category: %w", err)
	}
	return updated, nil
}

// Delete removes a category by id. Association rows go with it via the
// foreign-key cascade; posts that referenced it are untouched. There is
// no in-use guard: a category may be deleted while still referenced by
// counts computed just beforehand. Returns models.ErrNotFound if absent.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %d: %w", id, models.ErrNotFound)
	}
	return nil
}
