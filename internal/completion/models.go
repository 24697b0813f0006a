// Package completion tracks which recommendation items a user has checked
// off, per calendar day, and summarizes days for the calendar view.
package completion

import (
	"encoding/json"

	"github.com/jyoon-lee/haruhealth/internal/program"
)

// Record is the current completion state of one item on one day. Details
// carries the item as it looked when checked off so history rows stay
// meaningful after the recommendation is regenerated.
type Record struct {
	Date      string
	Type      program.Type
	ItemName  string
	Completed bool
	Details   json.RawMessage
}

// State classifies a day for the calendar view.
type State string

const (
	StateEmpty    State = "empty"
	StatePartial  State = "partial"
	StateComplete State = "complete"
)

// Summary counts a day's completed records against all records for it.
type Summary struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// State returns the tri-state classification of the day. A day without any
// records is empty.
func (s Summary) State() State {
	switch {
	case s.Total == 0 || s.Completed == 0:
		return StateEmpty
	case s.Completed >= s.Total:
		return StateComplete
	default:
		return StatePartial
	}
}

// Summarize aggregates the completion records of one day: every record
// counts towards the total and the checked ones towards completed. The
// summary is derived from records alone, so regenerating a recommendation
// never re-classifies a past date.
func Summarize(completions map[string]bool) Summary {
	summary := Summary{Total: len(completions)}
	for _, completed := range completions {
		if completed {
			summary.Completed++
		}
	}
	return summary
}
