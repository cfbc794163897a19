package models

import (
	"fmt"
	"time"
)

// ShiftTime is a time of day in "HH:MM" (24h) format. Bookings recur on
// the same daily shift across their date range, so shifts are stored as
// wall-clock times independent of any calendar date.
type ShiftTime string

// Minutes returns the shift time as minutes since midnight.
func (s ShiftTime) Minutes() (int, error) {
	t, err := time.Parse("15:04", string(s))
	if err != nil {
		return 0, fmt.Errorf("invalid shift time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Window is the (date range x daily shift) during which a booking
// occupies a helper's schedule. StartDate and EndDate are inclusive
// calendar dates; the shift applies on every day in the range.
type Window struct {
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	ShiftStart ShiftTime `json:"shift_start"`
	ShiftEnd   ShiftTime `json:"shift_end"`
}

// Validate checks the window invariants: start_date <= end_date and
// shift_start < shift_end, with both shifts parseable.
func (w Window) Validate() error {
	startMin, err := w.ShiftStart.Minutes()
	if err != nil {
		return err
	}
	endMin, err := w.ShiftEnd.Minutes()
	if err != nil {
		return err
	}
	if startMin >= endMin {
		return fmt.Errorf("shift_start %s must be before shift_end %s", w.ShiftStart, w.ShiftEnd)
	}
	if dateOnly(w.StartDate).After(dateOnly(w.EndDate)) {
		return fmt.Errorf("start_date must not be after end_date")
	}
	return nil
}

// Overlaps reports whether two windows conflict. A conflict requires
// both axes to intersect: shared calendar days (inclusive bounds) and
// overlapping shift hours on those days (strict bounds, so a shift
// ending at 12:00 does not conflict with one starting at 12:00).
// Symmetric and reflexive.
func (w Window) Overlaps(other Window) bool {
	aStart, aEnd := dateOnly(w.StartDate), dateOnly(w.EndDate)
	bStart, bEnd := dateOnly(other.StartDate), dateOnly(other.EndDate)

	latestStart := aStart
	if bStart.After(latestStart) {
		latestStart = bStart
	}
	earliestEnd := aEnd
	if bEnd.Before(earliestEnd) {
		earliestEnd = bEnd
	}
	if latestStart.After(earliestEnd) {
		return false
	}

	aFrom, err := w.ShiftStart.Minutes()
	if err != nil {
		return false
	}
	aTo, err := w.ShiftEnd.Minutes()
	if err != nil {
		return false
	}
	bFrom, err := other.ShiftStart.Minutes()
	if err != nil {
		return false
	}
	bTo, err := other.ShiftEnd.Minutes()
	if err != nil {
		return false
	}

	from := aFrom
	if bFrom > from {
		from = bFrom
	}
	to := aTo
	if bTo < to {
		to = bTo
	}
	return from < to
}

// EndsAt returns the wall-clock moment the window's last shift ends.
func (w Window) EndsAt() time.Time {
	endMin, err := w.ShiftEnd.Minutes()
	if err != nil {
		return w.EndDate
	}
	d := dateOnly(w.EndDate)
	return d.Add(time.Duration(endMin) * time.Minute)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
