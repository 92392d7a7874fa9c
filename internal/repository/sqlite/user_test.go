package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/model"
)

func createTestUser(t *testing.T, db *DB, name, email string, admin bool) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutlongenough",
		IsAdmin:      admin,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "Alice", "alice@example.com", false)
	if user.ID == 0 {
		t.Error("CreateUser() did not set user.ID")
	}

	found, err := db.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Name != "Alice" {
		t.Errorf("Name = %q, want %q", found.Name, "Alice")
	}
	if found.IsAdmin {
		t.Error("IsAdmin = true, want false")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Alice", "alice@example.com", false)

	dup := &model.User{Name: "Other Alice", Email: "alice@example.com", PasswordHash: "x"}
	err := db.CreateUser(context.Background(), dup)
	if err == nil {
		t.Fatal("CreateUser() should error on duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "Bob", "bob@example.com", false)

	found, err := db.GetUserByEmail(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCountUsers(t *testing.T) {
	db := newTestDB(t)

	count, err := db.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("CountUsers() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountUsers() = %d, want 0", count)
	}

	createTestUser(t, db, "Alice", "alice@example.com", true)
	createTestUser(t, db, "Bob", "bob@example.com", false)

	count, err = db.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("CountUsers() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountUsers() = %d, want 2", count)
	}
}

func TestGetAdminUser(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Guest", "guest@example.com", false)
	admin := createTestUser(t, db, "Host", "host@example.com", true)

	found, err := db.GetAdminUser(context.Background())
	if err != nil {
		t.Fatalf("GetAdminUser() error = %v", err)
	}
	if found.ID != admin.ID {
		t.Errorf("ID = %d, want admin %d", found.ID, admin.ID)
	}
}

func TestGetAdminUser_NoAdmin(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Guest", "guest@example.com", false)

	_, err := db.GetAdminUser(context.Background())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
