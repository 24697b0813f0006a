package program

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jyoon-lee/haruhealth/internal/contexthelpers"
	"github.com/jyoon-lee/haruhealth/internal/sqlite"
)

// ErrNotFound reports a missing record for the requested user and type.
var ErrNotFound = errors.New("not found")

// sqliteRecordRepository stores raw recommendation payloads, one row per
// generation.
type sqliteRecordRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRecordRepository(db *sqlite.Database, logger *slog.Logger) *sqliteRecordRepository {
	return &sqliteRecordRepository{
		db:     db,
		logger: logger,
	}
}

// Latest returns the most recent stored payload for the user and type.
func (r *sqliteRecordRepository) Latest(ctx context.Context, typ Type) (json.RawMessage, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var payload string
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT payload
		FROM recommendation_records
		WHERE user_id = ? AND program_type = ?
		ORDER BY id DESC
		LIMIT 1`,
		userID, string(typ)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest recommendation: %w", err)
	}
	return json.RawMessage(payload), nil
}

// Append stores a freshly generated payload as the new latest record.
func (r *sqliteRecordRepository) Append(ctx context.Context, typ Type, payload json.RawMessage) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	if _, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO recommendation_records (user_id, program_type, payload)
		VALUES (?, ?, ?)`,
		userID, string(typ), string(payload)); err != nil {
		return fmt.Errorf("insert recommendation record: %w", err)
	}
	return nil
}
