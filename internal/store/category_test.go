package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func TestCategoryStoreCreateAndGet(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	token := uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategories(t, db, "tech-notes-"+token) })

	created, err := s.Create(ctx(), "Tech Notes "+token, "Notes on tech")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Slug != "tech-notes-"+token {
		t.Errorf("slug: got %q, want %q", created.Slug, "tech-notes-"+token)
	}

	found, err := s.GetByID(ctx(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Name != "Tech Notes "+token {
		t.Errorf("name: got %q", found.Name)
	}
	if found.Description != "Notes on tech" {
		t.Errorf("description: got %q", found.Description)
	}
}

func TestCategoryStoreDuplicateName(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	token := uuid.NewString()[:8]
	name := "Unique " + token
	t.Cleanup(func() { cleanCategories(t, db, "unique-"+token) })

	if _, err := s.Create(ctx(), name, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(ctx(), name, ""); !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate name: got %v, want ErrConflict", err)
	}
}

func TestCategoryStoreSlugCollision(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	token := uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategories(t, db, "go-tips-"+token) })

	// Distinct names that normalize to the same slug.
	first, err := s.Create(ctx(), "Go Tips "+token, "")
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}
	second, err := s.Create(ctx(), "Go Tips! "+token, "")
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if first.Slug != "go-tips-"+token {
		t.Errorf("first slug: got %q", first.Slug)
	}
	if second.Slug != "go-tips-"+token+"-1" {
		t.Errorf("second slug: got %q, want %q", second.Slug, "go-tips-"+token+"-1")
	}
}

func TestCategoryStoreUpdate(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	token := uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategories(t, db, "before-"+token, "after-"+token) })

	created, err := s.Create(ctx(), "Before "+token, "old")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Description-only change: slug stays.
	updated, err := s.Update(ctx(), created.ID, "Before "+token, "new")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != created.Slug {
		t.Errorf("slug changed without rename: %q -> %q", created.Slug, updated.Slug)
	}
	if updated.Description != "new" {
		t.Errorf("description: got %q", updated.Description)
	}

	// Rename: slug follows.
	updated, err = s.Update(ctx(), created.ID, "After "+token, "new")
	if err != nil {
		t.Fatalf("Update (rename): %v", err)
	}
	if updated.Slug != "after-"+token {
		t.Errorf("slug: got %q, want %q", updated.Slug, "after-"+token)
	}

	if _, err := s.Update(ctx(), 999999999, "Nope", ""); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Update missing: got %v, want ErrNotFound", err)
	}
}

func TestCategoryStorePostCounts(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	posts := NewPostStore(db)
	authorID := testAuthorID(t, db)

	token := uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanPosts(t, db, "counted-live-"+token, "counted-draft-"+token, "counted-future-"+token)
		cleanCategories(t, db, "counting-"+token)
	})

	cat, err := s.Create(ctx(), "Counting "+token, "")
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}

	if _, err := posts.Create(ctx(), &models.Post{
		Title: "Counted Live " + token, Content: "c", Status: models.PostStatusPublished, UserID: authorID,
	}, []int64{cat.ID}); err != nil {
		t.Fatalf("Create live post: %v", err)
	}
	if _, err := posts.Create(ctx(), &models.Post{
		Title: "Counted Draft " + token, Content: "c", Status: models.PostStatusDraft, UserID: authorID,
	}, []int64{cat.ID}); err != nil {
		t.Fatalf("Create draft post: %v", err)
	}
	future := time.Now().Add(24 * time.Hour)
	if _, err := posts.Create(ctx(), &models.Post{
		Title: "Counted Future " + token, Content: "c", Status: models.PostStatusPublished,
		PublishedAt: &future, UserID: authorID,
	}, []int64{cat.ID}); err != nil {
		t.Fatalf("Create scheduled post: %v", err)
	}

	findCount := func(cats []models.Category) (int, bool) {
		for _, c := range cats {
			if c.ID == cat.ID {
				return c.PostCount, true
			}
		}
		return 0, false
	}

	all, err := s.List(ctx(), false)
	if err != nil {
		t.Fatalf("List (admin): %v", err)
	}
	if n, ok := findCount(all); !ok || n != 3 {
		t.Errorf("admin post count: got %d (found=%v), want 3", n, ok)
	}

	public, err := s.List(ctx(), true)
	if err != nil {
		t.Fatalf("List (public): %v", err)
	}
	if n, ok := findCount(public); !ok || n != 1 {
		t.Errorf("public post count: got %d (found=%v), want 1", n, ok)
	}
}

func TestCategoryStoreDeleteCascades(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	posts := NewPostStore(db)
	authorID := testAuthorID(t, db)

	token := uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanPosts(t, db, "survivor-"+token)
		cleanCategories(t, db, "doomed-cat-"+token)
	})

	cat, err := s.Create(ctx(), "Doomed Cat "+token, "")
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	post, err := posts.Create(ctx(), &models.Post{
		Title: "Survivor " + token, Content: "c", Status: models.PostStatusDraft, UserID: authorID,
	}, []int64{cat.ID})
	if err != nil {
		t.Fatalf("Create post: %v", err)
	}

	if err := s.Delete(ctx(), cat.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The post survives with the association gone.
	found, err := posts.GetByID(ctx(), post.ID)
	if err != nil {
		t.Fatalf("GetByID after category delete: %v", err)
	}
	if len(found.Categories) != 0 {
		t.Errorf("expected no categories, got %v", categoryIDs(found.Categories))
	}

	if err := s.Delete(ctx(), cat.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}
