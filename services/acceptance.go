package services

import (
	"context"
	"log"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// Acceptance arbiter: many helpers may race to claim the same approved
// job post. The claim is a single conditional write keyed on the
// unassigned precondition, so exactly one caller wins; everyone else
// gets a conflict, never a stale success.

// AcceptJob claims an approved, unassigned job post for the helper
// identified by their user id.
func (s *BookingService) AcceptJob(ctx context.Context, bookingID, helperUserID uint) (*models.Booking, error) {
	profile, err := s.helpers.ByUserID(ctx, helperUserID)
	if err != nil {
		return nil, err
	}
	booking, err := s.prepareClaim(ctx, bookingID, profile)
	if err != nil {
		return nil, err
	}
	return s.claim(ctx, booking, profile, models.EventJobAccepted)
}

// AssignHelper binds a specific helper to a booking on the direct or
// admin path. It shares the claim machinery with AcceptJob, so the
// double-booking and at-most-one guarantees hold on both paths.
func (s *BookingService) AssignHelper(ctx context.Context, bookingID, helperID uint) (*models.Booking, error) {
	profile, err := s.helpers.ByID(ctx, helperID)
	if err != nil {
		return nil, err
	}
	booking, err := s.prepareClaim(ctx, bookingID, profile)
	if err != nil {
		return nil, err
	}
	return s.claim(ctx, booking, profile, models.EventHelperAssigned)
}

// bindHelper binds a helper to a freshly created booking on the direct
// path. Same machinery as AssignHelper; the booking is already loaded.
func (s *BookingService) bindHelper(ctx context.Context, booking *models.Booking, helperID uint, event models.BookingEvent) (*models.Booking, error) {
	profile, err := s.helpers.ByID(ctx, helperID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, apperror.State("helper profile %d is not active", profile.ID)
	}
	if booking.ServiceID != profile.ServiceID {
		return nil, apperror.Validation("helper %d does not offer this service", profile.ID)
	}
	return s.claim(ctx, booking, profile, event)
}

// prepareClaim runs the cheap fail-fast eligibility checks. These are
// advisory only; the claim itself re-validates atomically.
func (s *BookingService) prepareClaim(ctx context.Context, bookingID uint, profile *models.HelperProfile) (*models.Booking, error) {
	if !profile.IsActive {
		return nil, apperror.State("helper profile %d is not active", profile.ID)
	}

	booking, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperror.State("booking %d is %s and accepts no transitions", booking.ID, booking.Status)
	}
	if booking.ApprovalStatus != models.ApprovalApproved {
		return nil, apperror.State("booking %d is not approved for acceptance", booking.ID)
	}
	if booking.HelperID != nil {
		return nil, apperror.Conflict("job already taken")
	}
	if booking.ServiceID != profile.ServiceID {
		return nil, apperror.Validation("helper %d does not offer this service", profile.ID)
	}
	return booking, nil
}

// claim executes the atomic bind, then re-checks the helper's schedule
// against the now-assigned booking. A post-claim overlap rolls the
// assignment back rather than leaving a double-booking.
func (s *BookingService) claim(ctx context.Context, booking *models.Booking, profile *models.HelperProfile, event models.BookingEvent) (*models.Booking, error) {
	claimed, err := s.bookings.ClaimJob(ctx, booking.ID, profile.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apperror.Conflict("job already taken")
	}

	free, err := s.matcher.IsAvailable(ctx, profile.ID, booking.Window(), booking.ID)
	if err != nil {
		if relErr := s.bookings.ReleaseClaim(ctx, booking.ID, profile.ID); relErr != nil {
			log.Printf("❌ Failed to release claim on booking %d for helper %d: %v", booking.ID, profile.ID, relErr)
		}
		return nil, err
	}
	if !free {
		if relErr := s.bookings.ReleaseClaim(ctx, booking.ID, profile.ID); relErr != nil {
			log.Printf("❌ Failed to release claim on booking %d for helper %d: %v", booking.ID, profile.ID, relErr)
		}
		return nil, apperror.Conflict("schedule conflict")
	}

	bound, err := s.bookings.ByID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Booking %d bound to helper %d", bound.ID, profile.ID)
	s.emit(ctx, bound.CustomerID, event, bound.ID)
	s.emit(ctx, profile.UserID, event, bound.ID)
	return bound, nil
}
