package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrUserNotFound reports a lookup for a user id with no matching row.
var ErrUserNotFound = errors.New("user not found")

// CreateUser inserts a user and returns its id.
func (db *Database) CreateUser(ctx context.Context, displayName string) (int64, error) {
	result, err := db.ReadWrite.ExecContext(ctx,
		"INSERT INTO users (display_name) VALUES (?)", displayName)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// LookupUser returns the display name for a user id.
func (db *Database) LookupUser(ctx context.Context, id int64) (string, error) {
	var displayName string
	err := db.ReadOnly.QueryRowContext(ctx,
		"SELECT display_name FROM users WHERE id = ?", id).Scan(&displayName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query user: %w", err)
	}
	return displayName, nil
}
