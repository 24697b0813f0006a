package program

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jyoon-lee/haruhealth/internal/contexthelpers"
	"github.com/jyoon-lee/haruhealth/internal/sqlite"
	"github.com/jyoon-lee/haruhealth/internal/weekday"
)

// sqliteSurveyRepository stores the survey-declared active days.
type sqliteSurveyRepository struct {
	db *sqlite.Database
}

func newSurveyRepository(db *sqlite.Database) *sqliteSurveyRepository {
	return &sqliteSurveyRepository{db: db}
}

// ActiveDays retrieves the user's selected days. A user without a survey
// row gets an empty set, which makes the default days apply downstream.
func (r *sqliteSurveyRepository) ActiveDays(ctx context.Context) (ActiveDays, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var sunday, monday, tuesday, wednesday, thursday, friday, saturday bool
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT sunday, monday, tuesday, wednesday, thursday, friday, saturday
		FROM survey_preferences
		WHERE user_id = ?`, userID).Scan(
		&sunday, &monday, &tuesday, &wednesday, &thursday, &friday, &saturday)
	if errors.Is(err, sql.ErrNoRows) {
		return ActiveDays{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query survey preferences: %w", err)
	}

	return ActiveDays{
		weekday.Sunday:    sunday,
		weekday.Monday:    monday,
		weekday.Tuesday:   tuesday,
		weekday.Wednesday: wednesday,
		weekday.Thursday:  thursday,
		weekday.Friday:    friday,
		weekday.Saturday:  saturday,
	}, nil
}

// SetActiveDays saves the user's selected days, replacing any earlier
// submission.
func (r *sqliteSurveyRepository) SetActiveDays(ctx context.Context, days ActiveDays) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	if _, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO survey_preferences (
			user_id, sunday, monday, tuesday, wednesday, thursday, friday, saturday
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			sunday = excluded.sunday,
			monday = excluded.monday,
			tuesday = excluded.tuesday,
			wednesday = excluded.wednesday,
			thursday = excluded.thursday,
			friday = excluded.friday,
			saturday = excluded.saturday`,
		userID,
		days[weekday.Sunday],
		days[weekday.Monday],
		days[weekday.Tuesday],
		days[weekday.Wednesday],
		days[weekday.Thursday],
		days[weekday.Friday],
		days[weekday.Saturday],
	); err != nil {
		return fmt.Errorf("save survey preferences: %w", err)
	}
	return nil
}
