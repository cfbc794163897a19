package services

import (
	"context"
	"sort"

	"homehelp-server/models"
)

// AvailabilityMatcher answers "which helpers are free in this window"
// and its inverse, "is this helper free". Reads are snapshots; the
// binding itself is protected by the arbiter's atomic claim, not by the
// matcher.
type AvailabilityMatcher struct {
	helpers  HelperStore
	bookings BookingStore
}

// NewAvailabilityMatcher creates a new availability matcher
func NewAvailabilityMatcher(helpers HelperStore, bookings BookingStore) *AvailabilityMatcher {
	return &AvailabilityMatcher{helpers: helpers, bookings: bookings}
}

// FindAvailable returns the active helpers matching the filter whose
// schedules do not overlap the requested window, ranked by rating
// descending, then hourly rate ascending, then id for stability.
// Side-effect free; paging is the caller's responsibility.
func (m *AvailabilityMatcher) FindAvailable(ctx context.Context, window models.Window, serviceID uint, f models.HelperFilter) ([]models.HelperCandidate, error) {
	f.ServiceID = serviceID
	helpers, err := m.helpers.Active(ctx, f)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.HelperCandidate, 0, len(helpers))
	for i := range helpers {
		h := &helpers[i]
		free, err := m.freeInWindow(ctx, h.ID, window, 0)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}
		candidates = append(candidates, models.HelperCandidate{
			HelperID:   h.ID,
			UserID:     h.UserID,
			FullName:   h.User.FullName,
			Province:   h.Province,
			HourlyRate: h.HourlyRate,
			Rating:     h.Rating,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.HourlyRate != b.HourlyRate {
			return a.HourlyRate < b.HourlyRate
		}
		return a.HelperID < b.HelperID
	})
	return candidates, nil
}

// IsAvailable checks a single candidate helper before binding.
// excludeBookingID skips the booking being bound, so a just-claimed job
// does not conflict with itself.
func (m *AvailabilityMatcher) IsAvailable(ctx context.Context, helperID uint, window models.Window, excludeBookingID uint) (bool, error) {
	return m.freeInWindow(ctx, helperID, window, excludeBookingID)
}

func (m *AvailabilityMatcher) freeInWindow(ctx context.Context, helperID uint, window models.Window, excludeBookingID uint) (bool, error) {
	occupying, err := m.bookings.OccupyingByHelper(ctx, helperID)
	if err != nil {
		return false, err
	}
	for i := range occupying {
		b := &occupying[i]
		if b.ID == excludeBookingID {
			continue
		}
		if b.Window().Overlaps(window) {
			return false, nil
		}
	}
	return true, nil
}
