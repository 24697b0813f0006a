// Package program implements the recommendation resolution engine: it
// repairs AI-generated weekly program payloads into a canonical shape and
// resolves, for a user and program type, which source supplies the program
// to display.
package program

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jyoon-lee/haruhealth/internal/weekday"
)

// Type selects between the two recommendation domains.
type Type string

const (
	TypeWorkout Type = "workout"
	TypeDiet    Type = "diet"
)

// ErrUnknownType reports a program type outside workout/diet.
var ErrUnknownType = errors.New("unknown program type")

// ParseType validates a program type coming from a request.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeWorkout, TypeDiet:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Item is a single workout or meal recommendation entry. The numeric
// attributes are optional and differ per domain.
type Item struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration,omitempty"`
	Calories        int    `json:"calories,omitempty"`
	Sets            int    `json:"sets,omitempty"`
	Reps            int    `json:"reps,omitempty"`
	Category        string `json:"category,omitempty"`
}

// Weekly maps every canonical weekday to its ordered recommendation items.
// A normalized Weekly always contains exactly the seven canonical keys.
type Weekly map[weekday.Key][]Item

// NewWeekly returns a Weekly with all seven days present and empty.
func NewWeekly() Weekly {
	week := make(Weekly, len(weekday.Keys()))
	for _, day := range weekday.Keys() {
		week[day] = []Item{}
	}
	return week
}

// Empty reports whether no day has any items.
func (w Weekly) Empty() bool {
	for _, items := range w {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

// Tier identifies which source supplied a resolved program.
type Tier string

const (
	TierExplicit Tier = "explicit"
	TierCache    Tier = "cache"
	TierBackend  Tier = "backend"
	TierNone     Tier = "none"
)

// Resolution is the outcome of a source lookup.
type Resolution struct {
	Program Weekly
	Origin  Tier
}

// Entry is the structured value stored in the per-user cache. The program
// payloads stay raw so they are re-normalized on every read; entries written
// by older clients may predate normalization.
type Entry struct {
	Workouts      json.RawMessage `json:"workouts,omitempty"`
	Diets         json.RawMessage `json:"diets,omitempty"`
	ProgramName   string          `json:"programName,omitempty"`
	MealStyle     string          `json:"mealStyle,omitempty"`
	DailyCalories int             `json:"dailyCalories,omitempty"`
}

func (e *Entry) program(typ Type) json.RawMessage {
	if typ == TypeDiet {
		return e.Diets
	}
	return e.Workouts
}

func (e *Entry) setProgram(typ Type, payload json.RawMessage) {
	if typ == TypeDiet {
		e.Diets = payload
		return
	}
	e.Workouts = payload
}

// itemIDNamespace is the UUIDv5 namespace for stable item identifiers.
//
//nolint:gochecknoglobals // constant namespace.
var itemIDNamespace = uuid.MustParse("6f1cfb54-8b2d-4a6e-9a57-3d2f0c9b1e84")

// stableItemID derives a deterministic identifier from the item's position
// and name so completion records stay valid across re-normalization even if
// display text is retranslated.
func stableItemID(day weekday.Key, index int, name string) string {
	return uuid.NewSHA1(itemIDNamespace, fmt.Appendf(nil, "%s/%d/%s", day, index, name)).String()
}
