package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, a sample category, and a published welcome post. It is a
// no-op when users already exist. The admin will be prompted to set up
// 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "admin@inkwell.local", string(hash), "Admin", "admin", false).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	var categoryID int64
	err = db.QueryRow(`
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "General", "general", "Uncategorized notes").Scan(&categoryID)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	var postID int64
	err = db.QueryRow(`
		INSERT INTO posts (title, slug, content, excerpt, status, published_at, user_id)
		VALUES ($1, $2, $3, $4, 'published', NOW(), $5)
		RETURNING id
	`, "Welcome to Inkwell", "welcome-to-inkwell",
		"# Welcome\n\nThis is your first post. Edit or delete it from the admin area.",
		"This is your first post.", userID).Scan(&postID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	if _, err := db.Exec(`
		INSERT INTO posts_to_categories (post_id, category_id) VALUES ($1, $2)
	`, postID, categoryID); err != nil {
		return fmt.Errorf("seed associate post: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@inkwell.local",
		"password", "admin",
	)

	return nil
}
