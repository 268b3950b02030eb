package store

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func insertUser(t *testing.T, db *sql.DB, email, password string) uuid.UUID {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	var id uuid.UUID
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, 'User Test', 'author')
		RETURNING id`, email, string(hash)).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, email) })
	return id
}

func TestUserStoreFindByEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "find-" + uuid.NewString()[:8] + "@test.local"
	id := insertUser(t, db, email, "hunter2")

	u, err := s.FindByEmail(ctx(), email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u == nil || u.ID != id {
		t.Fatalf("got %+v, want user %s", u, id)
	}
	if u.TOTPEnabled || u.TOTPSecret != nil {
		t.Error("fresh user should have no TOTP state")
	}
	if !u.Needs2FASetup() {
		t.Error("fresh user should need 2FA setup")
	}

	missing, err := s.FindByEmail(ctx(), "nobody@test.local")
	if err != nil {
		t.Fatalf("FindByEmail (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserStoreCheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "pass-" + uuid.NewString()[:8] + "@test.local"
	insertUser(t, db, email, "hunter2")

	u, err := s.FindByEmail(ctx(), email)
	if err != nil || u == nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if !s.CheckPassword(u, "hunter2") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(u, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "totp-" + uuid.NewString()[:8] + "@test.local"
	id := insertUser(t, db, email, "hunter2")

	if err := s.SetTOTPSecret(ctx(), id, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	u, err := s.FindByID(ctx(), id)
	if err != nil || u == nil {
		t.Fatalf("FindByID: %v", err)
	}
	if u.TOTPSecret == nil || *u.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("totp secret: got %v", u.TOTPSecret)
	}
	if u.TOTPEnabled {
		t.Error("totp should not be enabled before verification")
	}

	if err := s.EnableTOTP(ctx(), id); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	u, _ = s.FindByID(ctx(), id)
	if u == nil || !u.TOTPEnabled {
		t.Error("totp_enabled not persisted")
	}
	if u.Needs2FASetup() {
		t.Error("enrolled user should not need setup")
	}
}
