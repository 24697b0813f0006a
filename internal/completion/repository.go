package completion

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jyoon-lee/haruhealth/internal/contexthelpers"
	"github.com/jyoon-lee/haruhealth/internal/program"
	"github.com/jyoon-lee/haruhealth/internal/sqlite"
)

// sqliteRepository persists completion records and the append-only history.
type sqliteRepository struct {
	db *sqlite.Database
}

func newRepository(db *sqlite.Database) *sqliteRepository {
	return &sqliteRepository{db: db}
}

// Save upserts the current completion state of an item and clears any
// pending retry flag for it.
func (r *sqliteRepository) Save(ctx context.Context, rec Record) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	if _, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO completion_records (
			user_id, completion_date, program_type, item_name, completed, details, pending_retry
		) VALUES (?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT (user_id, completion_date, item_name) DO UPDATE SET
			program_type = excluded.program_type,
			completed = excluded.completed,
			details = excluded.details,
			pending_retry = 0`,
		userID, rec.Date, string(rec.Type), rec.ItemName, rec.Completed, string(rec.Details),
	); err != nil {
		return fmt.Errorf("save completion record: %w", err)
	}
	return nil
}

// MarkPending flags a record whose history append failed so FlushPending
// can replay it.
func (r *sqliteRepository) MarkPending(ctx context.Context, date, itemName string) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	if _, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE completion_records
		SET pending_retry = 1
		WHERE user_id = ? AND completion_date = ? AND item_name = ?`,
		userID, date, itemName,
	); err != nil {
		return fmt.Errorf("mark completion pending: %w", err)
	}
	return nil
}

// ClearPending removes the retry flag after a successful replay.
func (r *sqliteRepository) ClearPending(ctx context.Context, date, itemName string) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	if _, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE completion_records
		SET pending_retry = 0
		WHERE user_id = ? AND completion_date = ? AND item_name = ?`,
		userID, date, itemName,
	); err != nil {
		return fmt.Errorf("clear completion pending: %w", err)
	}
	return nil
}

// Pending lists the user's records still waiting for a history append.
func (r *sqliteRepository) Pending(ctx context.Context) (records []Record, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var rows *sql.Rows
	rows, err = r.db.ReadOnly.QueryContext(ctx, `
		SELECT completion_date, program_type, item_name, completed, details
		FROM completion_records
		WHERE user_id = ? AND pending_retry = 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("query pending completions: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	for rows.Next() {
		var (
			rec     Record
			typ     string
			details string
		)
		if err := rows.Scan(&rec.Date, &typ, &rec.ItemName, &rec.Completed, &details); err != nil {
			return nil, fmt.Errorf("scan pending completion: %w", err)
		}
		rec.Type = program.Type(typ)
		rec.Details = json.RawMessage(details)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending completions: %w", err)
	}
	return records, nil
}

// AppendHistory writes an immutable history row for a completion change.
func (r *sqliteRepository) AppendHistory(ctx context.Context, rec Record) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	if _, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO completion_history (
			user_id, completion_date, program_type, item_name, completed, details
		) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, rec.Date, string(rec.Type), rec.ItemName, rec.Completed, string(rec.Details),
	); err != nil {
		return fmt.Errorf("append completion history: %w", err)
	}
	return nil
}

// DayCompletions returns the completed flag per item name for one day.
func (r *sqliteRepository) DayCompletions(ctx context.Context, date string) (completions map[string]bool, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var rows *sql.Rows
	rows, err = r.db.ReadOnly.QueryContext(ctx, `
		SELECT item_name, completed
		FROM completion_records
		WHERE user_id = ? AND completion_date = ?`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("query day completions: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	completions = map[string]bool{}
	for rows.Next() {
		var (
			name      string
			completed bool
		)
		if err := rows.Scan(&name, &completed); err != nil {
			return nil, fmt.Errorf("scan day completion: %w", err)
		}
		completions[name] = completed
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day completions: %w", err)
	}
	return completions, nil
}

// RangeCompletions returns, per date in [from, to], the completed flag per
// item name. Dates without rows are absent from the map.
func (r *sqliteRepository) RangeCompletions(ctx context.Context, from, to string) (byDate map[string]map[string]bool, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var rows *sql.Rows
	rows, err = r.db.ReadOnly.QueryContext(ctx, `
		SELECT completion_date, item_name, completed
		FROM completion_records
		WHERE user_id = ? AND completion_date BETWEEN ? AND ?`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query range completions: %w", err)
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	byDate = map[string]map[string]bool{}
	for rows.Next() {
		var (
			date      string
			name      string
			completed bool
		)
		if err := rows.Scan(&date, &name, &completed); err != nil {
			return nil, fmt.Errorf("scan range completion: %w", err)
		}
		if byDate[date] == nil {
			byDate[date] = map[string]bool{}
		}
		byDate[date][name] = completed
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate range completions: %w", err)
	}
	return byDate, nil
}
