package models

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

func win(startDay, endDay int, from, to ShiftTime) Window {
	return Window{StartDate: day(startDay), EndDate: day(endDay), ShiftStart: from, ShiftEnd: to}
}

func TestShiftTimeMinutes(t *testing.T) {
	min, err := ShiftTime("08:30").Minutes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if min != 8*60+30 {
		t.Errorf("got %d minutes, want 510", min)
	}

	for _, bad := range []ShiftTime{"8:30am", "25:00", "12:60", "noon", ""} {
		if _, err := bad.Minutes(); err == nil {
			t.Errorf("Minutes(%q) should fail", bad)
		}
	}
}

func TestWindowValidate(t *testing.T) {
	if err := win(1, 5, "08:00", "12:00").Validate(); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}
	if err := win(5, 1, "08:00", "12:00").Validate(); err == nil {
		t.Error("start_date after end_date should be rejected")
	}
	if err := win(1, 5, "12:00", "08:00").Validate(); err == nil {
		t.Error("shift_start after shift_end should be rejected")
	}
	if err := win(1, 5, "12:00", "12:00").Validate(); err == nil {
		t.Error("zero-length shift should be rejected")
	}
	if err := win(1, 1, "08:00", "12:00").Validate(); err != nil {
		t.Errorf("single-day window rejected: %v", err)
	}
}

func TestWindowOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Window
		want bool
	}{
		{
			name: "same window",
			a:    win(1, 5, "08:00", "12:00"),
			b:    win(1, 5, "08:00", "12:00"),
			want: true,
		},
		{
			name: "overlapping shifts on shared days",
			a:    win(1, 5, "08:00", "12:00"),
			b:    win(3, 8, "11:00", "13:00"),
			want: true,
		},
		{
			name: "shared days but adjacent shifts",
			a:    win(1, 5, "08:00", "12:00"),
			b:    win(1, 5, "12:00", "14:00"),
			want: false,
		},
		{
			name: "overlapping shifts but disjoint dates",
			a:    win(1, 5, "08:00", "12:00"),
			b:    win(6, 9, "08:00", "12:00"),
			want: false,
		},
		{
			name: "ranges touching on a single day",
			a:    win(1, 5, "08:00", "12:00"),
			b:    win(5, 9, "10:00", "14:00"),
			want: true,
		},
		{
			name: "one range contained in the other",
			a:    win(1, 10, "08:00", "18:00"),
			b:    win(4, 5, "09:00", "10:00"),
			want: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tc.want)
			}
			// Overlap is symmetric.
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWindowOverlapsIgnoresTimeOfDayOnDates(t *testing.T) {
	// Dates arriving with a time component still compare as calendar days.
	a := Window{
		StartDate:  time.Date(2026, time.September, 1, 23, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, time.September, 5, 1, 0, 0, 0, time.UTC),
		ShiftStart: "08:00",
		ShiftEnd:   "12:00",
	}
	b := win(5, 9, "08:00", "12:00")
	if !a.Overlaps(b) {
		t.Error("windows sharing the calendar day should overlap")
	}
}

func TestWindowEndsAt(t *testing.T) {
	w := win(1, 5, "08:00", "12:00")
	want := time.Date(2026, time.September, 5, 12, 0, 0, 0, time.UTC)
	if got := w.EndsAt(); !got.Equal(want) {
		t.Errorf("EndsAt() = %v, want %v", got, want)
	}
}
