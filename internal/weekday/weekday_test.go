package weekday_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jyoon-lee/haruhealth/internal/weekday"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    weekday.Key
		wantErr bool
	}{
		{name: "korean full form", input: "월요일", want: weekday.Monday},
		{name: "korean abbreviated", input: "수", want: weekday.Wednesday},
		{name: "english", input: "Friday", want: weekday.Friday},
		{name: "english lowercase", input: "saturday", want: weekday.Saturday},
		{name: "english abbreviated", input: "sun", want: weekday.Sunday},
		{name: "surrounding whitespace", input: " 금요일 ", want: weekday.Friday},
		{name: "garbage", input: "someday", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := weekday.Canonical(tt.input)
			if tt.wantErr {
				if !errors.Is(err, weekday.ErrUnrecognized) {
					t.Fatalf("Canonical(%q) error = %v, want ErrUnrecognized", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonical(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Every canonical English name must round-trip to itself.
func TestCanonical_RoundTrip(t *testing.T) {
	for _, key := range weekday.Keys() {
		got, err := weekday.Canonical(string(key))
		if err != nil {
			t.Fatalf("Canonical(%q) unexpected error: %v", key, err)
		}
		if got != key {
			t.Errorf("Canonical(%q) = %q, want itself", key, got)
		}
	}
}

func TestFromWeekday(t *testing.T) {
	if got := weekday.FromWeekday(time.Sunday); got != weekday.Sunday {
		t.Errorf("FromWeekday(time.Sunday) = %q, want Sunday", got)
	}
	if got := weekday.FromWeekday(time.Saturday); got != weekday.Saturday {
		t.Errorf("FromWeekday(time.Saturday) = %q, want Saturday", got)
	}
}

func TestFromDate(t *testing.T) {
	// 2025-06-02 is a Monday.
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if got := weekday.FromDate(date); got != weekday.Monday {
		t.Errorf("FromDate(2025-06-02) = %q, want Monday", got)
	}
}
