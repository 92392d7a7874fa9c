package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rohan/evite/internal/apperror"
	"github.com/rohan/evite/internal/model"
	"github.com/rohan/evite/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new account and fills in the generated ID.
// A duplicate email surfaces as apperror.ErrConflict; the registration form
// turns that into "Email already registered."
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, is_admin)
		 VALUES (?, ?, ?, ?)`,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return apperror.Conflict("user", "email already registered")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Email, err)
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, is_admin FROM users WHERE id = ?`, id,
	), id)
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, is_admin FROM users WHERE email = ?`, email,
	), 0)
}

func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: counting users: %w", err)
	}
	return count, nil
}

// GetAdminUser returns the first admin account, matching the original
// single-host assumption. LIMIT 1 keeps the query deterministic even if the
// database somehow ends up with two admins.
func (db *DB) GetAdminUser(ctx context.Context) (*model.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, is_admin
		 FROM users WHERE is_admin = 1 ORDER BY id LIMIT 1`,
	), 0)
}

func (db *DB) scanUser(row *sql.Row, id int64) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: scanning user: %w", err)
	}
	return &u, nil
}
