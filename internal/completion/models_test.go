package completion_test

import (
	"testing"

	"github.com/jyoon-lee/haruhealth/internal/completion"
)

func TestSummaryState(t *testing.T) {
	tests := []struct {
		name    string
		summary completion.Summary
		want    completion.State
	}{
		{"no records", completion.Summary{Completed: 0, Total: 0}, completion.StateEmpty},
		{"records but nothing checked", completion.Summary{Completed: 0, Total: 3}, completion.StateEmpty},
		{"some checked", completion.Summary{Completed: 1, Total: 3}, completion.StatePartial},
		{"all checked", completion.Summary{Completed: 3, Total: 3}, completion.StateComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		completions map[string]bool
		want        completion.Summary
	}{
		{
			name:        "no records",
			completions: nil,
			want:        completion.Summary{Completed: 0, Total: 0},
		},
		{
			name:        "mixed records",
			completions: map[string]bool{"Push-up": true, "Squat": false},
			want:        completion.Summary{Completed: 1, Total: 2},
		},
		{
			name:        "all checked",
			completions: map[string]bool{"Push-up": true, "Squat": true},
			want:        completion.Summary{Completed: 2, Total: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completion.Summarize(tt.completions); got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// A single checked record classifies the day complete on its own. Items the
// current plan lists but the user never touched produce no record and must
// not drag the total up.
func TestSummarizeCountsRecordsOnly(t *testing.T) {
	got := completion.Summarize(map[string]bool{"Push-up": true})
	want := completion.Summary{Completed: 1, Total: 1}
	if got != want {
		t.Fatalf("Summarize() = %+v, want %+v", got, want)
	}
	if got.State() != completion.StateComplete {
		t.Errorf("State() = %v, want %v", got.State(), completion.StateComplete)
	}
}
