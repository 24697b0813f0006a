package completion_test

import (
	"context"
	"testing"

	"github.com/jyoon-lee/haruhealth/internal/completion"
	"github.com/jyoon-lee/haruhealth/internal/contexthelpers"
	"github.com/jyoon-lee/haruhealth/internal/program"
	"github.com/jyoon-lee/haruhealth/internal/sqlite"
	"github.com/jyoon-lee/haruhealth/internal/testhelpers"
)

func newTestService(t *testing.T) (*completion.Service, context.Context) {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})

	userID, err := db.CreateUser(t.Context(), "tester")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return completion.NewService(db, logger), contexthelpers.Authenticate(t.Context(), userID)
}

func TestSetCompletionRoundTrip(t *testing.T) {
	svc, ctx := newTestService(t)
	const date = "2026-09-01"

	pushup := program.Item{Name: "Push-up", Sets: 3, Reps: 15}
	squat := program.Item{Name: "Squat", Sets: 3, Reps: 10}

	if err := svc.SetCompletion(ctx, date, program.TypeWorkout, pushup, true); err != nil {
		t.Fatalf("SetCompletion() error = %v", err)
	}
	if err := svc.SetCompletion(ctx, date, program.TypeWorkout, squat, false); err != nil {
		t.Fatalf("SetCompletion() error = %v", err)
	}

	completions, err := svc.DayCompletions(ctx, date)
	if err != nil {
		t.Fatalf("DayCompletions() error = %v", err)
	}
	if !completions["Push-up"] || completions["Squat"] {
		t.Errorf("completions = %v, want Push-up on and Squat off", completions)
	}

	summary := completion.Summarize(completions)
	if summary.State() != completion.StatePartial {
		t.Errorf("State() = %v, want %v", summary.State(), completion.StatePartial)
	}

	// Toggling the remaining item completes the day.
	if err := svc.SetCompletion(ctx, date, program.TypeWorkout, squat, true); err != nil {
		t.Fatalf("SetCompletion() error = %v", err)
	}
	completions, err = svc.DayCompletions(ctx, date)
	if err != nil {
		t.Fatalf("DayCompletions() error = %v", err)
	}
	summary = completion.Summarize(completions)
	if summary.State() != completion.StateComplete {
		t.Errorf("State() = %v, want %v", summary.State(), completion.StateComplete)
	}
}

func TestRangeCompletions(t *testing.T) {
	svc, ctx := newTestService(t)
	walk := program.Item{Name: "Walking", DurationMinutes: 30}

	for _, date := range []string{"2026-08-31", "2026-09-02", "2026-09-09"} {
		if err := svc.SetCompletion(ctx, date, program.TypeWorkout, walk, true); err != nil {
			t.Fatalf("SetCompletion(%s) error = %v", date, err)
		}
	}

	byDate, err := svc.RangeCompletions(ctx, "2026-09-01", "2026-09-07")
	if err != nil {
		t.Fatalf("RangeCompletions() error = %v", err)
	}
	if len(byDate) != 1 {
		t.Fatalf("RangeCompletions() returned %d dates, want 1: %v", len(byDate), byDate)
	}
	if !byDate["2026-09-02"]["Walking"] {
		t.Errorf("byDate = %v, want Walking completed on 2026-09-02", byDate)
	}
}

func TestCompletionsAreScopedToUser(t *testing.T) {
	svc, ctx := newTestService(t)
	const date = "2026-09-01"

	if err := svc.SetCompletion(ctx, date, program.TypeDiet, program.Item{Name: "현미밥"}, true); err != nil {
		t.Fatalf("SetCompletion() error = %v", err)
	}

	otherCtx := contexthelpers.Authenticate(t.Context(), 999999)
	completions, err := svc.DayCompletions(otherCtx, date)
	if err != nil {
		t.Fatalf("DayCompletions() error = %v", err)
	}
	if len(completions) != 0 {
		t.Errorf("another user sees completions: %v", completions)
	}
}

func TestFlushPendingWithNothingPending(t *testing.T) {
	svc, ctx := newTestService(t)

	flushed, err := svc.FlushPending(ctx)
	if err != nil {
		t.Fatalf("FlushPending() error = %v", err)
	}
	if flushed != 0 {
		t.Errorf("FlushPending() = %d, want 0", flushed)
	}
}
