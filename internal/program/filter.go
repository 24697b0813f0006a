package program

import (
	"github.com/jyoon-lee/haruhealth/internal/weekday"
)

// ActiveDays is the set of weekdays the user chose to train on in the survey.
type ActiveDays map[weekday.Key]bool

// DefaultActiveDays applies when the user has not picked any days yet.
func DefaultActiveDays() ActiveDays {
	return ActiveDays{
		weekday.Monday:    true,
		weekday.Wednesday: true,
		weekday.Friday:    true,
	}
}

// none reports whether the set selects no day at all. A survey row with
// every day unchecked counts the same as no survey.
func (d ActiveDays) none() bool {
	for _, active := range d {
		if active {
			return false
		}
	}
	return true
}

// IsActiveDay reports whether the given day is one the user trains on,
// falling back to the built-in default when the survey selected nothing.
func IsActiveDay(day weekday.Key, survey ActiveDays) bool {
	if survey.none() {
		return DefaultActiveDays()[day]
	}
	return survey[day]
}

// ShouldDisplay decides whether recommendations are shown for a day.
//
// Existing content always wins: if the program has items for the day they
// are shown even when the day is outside the survey selection, so a later
// survey change never hides already generated data. The filter only keeps
// empty off-days from reading as "not generated yet".
func ShouldDisplay(day weekday.Key, survey ActiveDays, week Weekly) bool {
	if len(week[day]) > 0 {
		return true
	}
	return IsActiveDay(day, survey)
}
