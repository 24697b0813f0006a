package main

import (
	"net/http"
	"testing"

	"github.com/jyoon-lee/haruhealth/internal/completion"
	"github.com/jyoon-lee/haruhealth/internal/program"
	"github.com/jyoon-lee/haruhealth/internal/weekday"
)

func Test_application_calendar(t *testing.T) {
	ts := newTestServer(t)
	ts.startSession(t)

	// Week of 2026-08-30 (Sunday) to 2026-09-05 (Saturday). Monday gets two
	// checked records, Wednesday one checked and one unchecked, Friday a
	// single unchecked record.
	for _, seed := range []struct {
		date string
		req  setCompletionRequest
	}{
		{"2026-08-31", setCompletionRequest{Type: "workout", Item: program.Item{Name: "스쿼트"}, Completed: true}},
		{"2026-08-31", setCompletionRequest{Type: "diet", Item: program.Item{Name: "현미밥"}, Completed: true}},
		{"2026-09-02", setCompletionRequest{Type: "workout", Item: program.Item{Name: "버피"}, Completed: true}},
		{"2026-09-02", setCompletionRequest{Type: "workout", Item: program.Item{Name: "런지"}, Completed: false}},
		{"2026-09-04", setCompletionRequest{Type: "workout", Item: program.Item{Name: "수영"}, Completed: false}},
	} {
		if status := ts.post(t, "/api/completions/"+seed.date, seed.req, nil); status != http.StatusOK {
			t.Fatalf("set completion on %s status = %d", seed.date, status)
		}
	}

	var resp calendarResponse
	if status := ts.get(t, "/api/calendar?from=2026-08-30&to=2026-09-05", &resp); status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if len(resp.Days) != 7 {
		t.Fatalf("got %d days, want 7", len(resp.Days))
	}

	byDate := map[string]calendarDay{}
	for _, day := range resp.Days {
		byDate[day.Date] = day
	}

	monday := byDate["2026-08-31"]
	if monday.State != completion.StateComplete || monday.Completed != 2 || monday.Total != 2 {
		t.Errorf("monday = %+v, want complete 2/2", monday)
	}
	if monday.Weekday != weekday.Monday {
		t.Errorf("monday weekday = %v", monday.Weekday)
	}

	wednesday := byDate["2026-09-02"]
	if wednesday.State != completion.StatePartial || wednesday.Completed != 1 || wednesday.Total != 2 {
		t.Errorf("wednesday = %+v, want partial 1/2", wednesday)
	}

	// A record that was never checked reads as empty, not partial.
	friday := byDate["2026-09-04"]
	if friday.State != completion.StateEmpty || friday.Completed != 0 || friday.Total != 1 {
		t.Errorf("friday = %+v, want empty 0/1", friday)
	}

	// No records at all.
	tuesday := byDate["2026-09-01"]
	if tuesday.State != completion.StateEmpty || tuesday.Total != 0 {
		t.Errorf("tuesday = %+v, want nothing recorded", tuesday)
	}

	t.Run("rejects bad ranges", func(t *testing.T) {
		if status := ts.get(t, "/api/calendar?from=2026-09-05&to=2026-08-30", nil); status != http.StatusBadRequest {
			t.Errorf("reversed range status = %d, want %d", status, http.StatusBadRequest)
		}
		if status := ts.get(t, "/api/calendar?from=bad&to=2026-09-05", nil); status != http.StatusBadRequest {
			t.Errorf("malformed from status = %d, want %d", status, http.StatusBadRequest)
		}
		if status := ts.get(t, "/api/calendar?from=2020-01-01&to=2026-09-05", nil); status != http.StatusBadRequest {
			t.Errorf("oversized range status = %d, want %d", status, http.StatusBadRequest)
		}
	})
}
