package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// CreateUser inserts a new user with an already-hashed password and returns
// the stored record. A duplicate email yields ErrDuplicateEmail.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		name, email, passwordHash, now, now)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}

	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetUserByEmail looks a user up by email. Missing users yield ErrNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}
