package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/frediet/frediet/internal/apperror"
	"github.com/frediet/frediet/internal/model"
	"github.com/frediet/frediet/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new account and returns its generated id.
//
// The UNIQUE constraint on username is the source of truth for duplicates:
// rather than SELECT-then-INSERT (which races), we insert and translate the
// constraint violation into apperror.ErrConflict. Any other driver failure
// becomes a generic storage error — raw driver text must never reach users.
func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.Conflict("username already exists")
		}
		return 0, apperror.Storage("unable to create account", fmt.Errorf("sqlite: inserting user: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, apperror.Storage("unable to create account", fmt.Errorf("sqlite: reading new user id: %w", err))
	}

	return id, nil
}

// GetUserByUsername returns the account for a username.
// Returns apperror.ErrNotFound when no such user exists.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("user %q not found", username),
			}
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}

	return &u, nil
}

// GetUserByID returns the account for an id.
// Returns apperror.ErrNotFound when no such user exists.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}

// DeleteUser removes an account. ON DELETE CASCADE in the schema removes
// every meal the user owned in the same statement.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return apperror.Storage("unable to delete account", fmt.Errorf("sqlite: deleting user %d: %w", id, err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}

// isUniqueViolation reports whether an error is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite doesn't export a stable typed error for this,
// so we match the canonical SQLite message text ("UNIQUE constraint failed:
// users.username"), which has been stable across SQLite versions for years.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
