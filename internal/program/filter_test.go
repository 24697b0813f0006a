package program_test

import (
	"testing"

	"github.com/jyoon-lee/haruhealth/internal/program"
	"github.com/jyoon-lee/haruhealth/internal/weekday"
)

func TestIsActiveDay(t *testing.T) {
	tests := []struct {
		name   string
		day    weekday.Key
		survey program.ActiveDays
		want   bool
	}{
		{
			name:   "nil survey falls back to default monday",
			day:    weekday.Monday,
			survey: nil,
			want:   true,
		},
		{
			name:   "nil survey falls back to default tuesday off",
			day:    weekday.Tuesday,
			survey: nil,
			want:   false,
		},
		{
			name:   "all false survey behaves like no survey",
			day:    weekday.Friday,
			survey: program.ActiveDays{weekday.Sunday: false, weekday.Monday: false},
			want:   true,
		},
		{
			name:   "survey selection wins over default",
			day:    weekday.Tuesday,
			survey: program.ActiveDays{weekday.Tuesday: true},
			want:   true,
		},
		{
			name:   "default day off when survey selects others",
			day:    weekday.Monday,
			survey: program.ActiveDays{weekday.Tuesday: true},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := program.IsActiveDay(tt.day, tt.survey); got != tt.want {
				t.Errorf("IsActiveDay(%s) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestShouldDisplay_ContentOverridesInactiveDay(t *testing.T) {
	wk := program.NewWeekly()
	wk[weekday.Sunday] = []program.Item{{Name: "Recovery walk"}}

	// Sunday is not a default active day but it has content, so it shows.
	if !program.ShouldDisplay(weekday.Sunday, nil, wk) {
		t.Error("day with content should display even when inactive")
	}
	// Saturday is inactive and empty.
	if program.ShouldDisplay(weekday.Saturday, nil, wk) {
		t.Error("empty inactive day should not display")
	}
	// Monday is a default active day, shown even without content.
	if !program.ShouldDisplay(weekday.Monday, nil, wk) {
		t.Error("active day should display even when empty")
	}
}

func TestDefaultActiveDays(t *testing.T) {
	got := program.DefaultActiveDays()
	for _, day := range weekday.Keys() {
		want := day == weekday.Monday || day == weekday.Wednesday || day == weekday.Friday
		if got[day] != want {
			t.Errorf("DefaultActiveDays()[%s] = %v, want %v", day, got[day], want)
		}
	}
}
