// Package weekday translates the day-of-week representations that appear in
// recommendation payloads and survey submissions into a single canonical form.
//
// Payloads produced upstream mix native weekday indices, Korean day names in
// both full ("월요일") and abbreviated ("월") form, and English names. Inside
// the engine only the canonical English Key is used.
package weekday

import (
	"errors"
	"strings"
	"time"
)

// Key is the canonical English weekday identifier.
type Key string

const (
	Sunday    Key = "Sunday"
	Monday    Key = "Monday"
	Tuesday   Key = "Tuesday"
	Wednesday Key = "Wednesday"
	Thursday  Key = "Thursday"
	Friday    Key = "Friday"
	Saturday  Key = "Saturday"
)

// ErrUnrecognized reports a day name that maps to no canonical key. Callers
// decide whether to fail loud or to skip the value with a warning.
var ErrUnrecognized = errors.New("unrecognized weekday name")

// Keys returns the seven canonical keys in natural week order.
func Keys() [7]Key {
	return [7]Key{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// names maps every recognised spelling to its canonical key. English names
// are matched case-insensitively via strings.ToLower before lookup.
var names = map[string]Key{
	"일요일": Sunday, "일": Sunday, "sunday": Sunday, "sun": Sunday,
	"월요일": Monday, "월": Monday, "monday": Monday, "mon": Monday,
	"화요일": Tuesday, "화": Tuesday, "tuesday": Tuesday, "tue": Tuesday,
	"수요일": Wednesday, "수": Wednesday, "wednesday": Wednesday, "wed": Wednesday,
	"목요일": Thursday, "목": Thursday, "thursday": Thursday, "thu": Thursday,
	"금요일": Friday, "금": Friday, "friday": Friday, "fri": Friday,
	"토요일": Saturday, "토": Saturday, "saturday": Saturday, "sat": Saturday,
}

// FromWeekday converts a native weekday to its canonical key.
func FromWeekday(d time.Weekday) Key {
	return Keys()[int(d)%7]
}

// FromDate converts a calendar date to the canonical key of its weekday.
func FromDate(date time.Time) Key {
	return FromWeekday(date.Weekday())
}

// Canonical maps a Korean or English day name to its canonical key.
func Canonical(name string) (Key, error) {
	trimmed := strings.TrimSpace(name)
	if key, ok := names[trimmed]; ok {
		return key, nil
	}
	if key, ok := names[strings.ToLower(trimmed)]; ok {
		return key, nil
	}
	return "", ErrUnrecognized
}

// Is reports whether name denotes a canonical weekday in any recognised
// spelling.
func Is(name string) bool {
	_, err := Canonical(name)
	return err == nil
}
