package services

import (
	"context"
	"log"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// Lifecycle transitions. Every method here follows the same shape: read
// fresh, run the full guard set, apply the one write, emit the event.
// Nothing is partially applied: a failed guard leaves the row untouched.

// Approve marks a pending job post as approved and eligible for
// acceptance.
func (s *BookingService) Approve(ctx context.Context, bookingID, adminID uint, note string) (*models.Booking, error) {
	booking, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperror.State("booking %d is %s and accepts no transitions", booking.ID, booking.Status)
	}
	if booking.ApprovalStatus != models.ApprovalPending {
		return nil, apperror.State("booking %d approval already resolved to %s", booking.ID, booking.ApprovalStatus)
	}

	booking.ApprovalStatus = models.ApprovalApproved
	if note != "" {
		booking.AdminNote = &note
	}
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	log.Printf("✅ Admin %d approved booking %d", adminID, booking.ID)
	s.emit(ctx, booking.CustomerID, models.EventBookingApproved, booking.ID)
	return booking, nil
}

// Reject declines a pending job post. A rejected approval forces the
// operational status to rejected as well.
func (s *BookingService) Reject(ctx context.Context, bookingID, adminID uint, reason string) (*models.Booking, error) {
	booking, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperror.State("booking %d is %s and accepts no transitions", booking.ID, booking.Status)
	}
	if booking.ApprovalStatus != models.ApprovalPending {
		return nil, apperror.State("booking %d approval already resolved to %s", booking.ID, booking.ApprovalStatus)
	}
	if reason == "" {
		return nil, apperror.Validation("a rejection reason is required")
	}

	booking.ApprovalStatus = models.ApprovalRejected
	booking.Status = models.BookingStatusRejected
	booking.AdminNote = &reason
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	log.Printf("❌ Admin %d rejected booking %d: %s", adminID, booking.ID, reason)
	s.emit(ctx, booking.CustomerID, models.EventBookingRejected, booking.ID)
	return booking, nil
}

// UpdateStatus applies an explicit status transition. The switch is
// exhaustive over the closed status set; anything not listed is an
// illegal transition.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uint, to models.BookingStatus, actor Actor) (*models.Booking, error) {
	if !to.IsValid() {
		return nil, apperror.Validation("unknown status %q", to)
	}

	booking, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperror.State("booking %d is %s and accepts no transitions", booking.ID, booking.Status)
	}

	switch to {
	case models.BookingStatusConfirmed:
		if booking.Status != models.BookingStatusPending {
			return nil, apperror.State("cannot confirm a booking in status %s", booking.Status)
		}
		if booking.HelperID == nil {
			return nil, apperror.State("cannot confirm a booking with no helper assigned")
		}
		booking.Status = models.BookingStatusConfirmed

	case models.BookingStatusCancelled:
		if actor.Role != models.RoleAdmin && booking.CustomerID != actor.UserID {
			return nil, apperror.Authorization("only the booking's customer or an admin may cancel")
		}
		booking.Status = models.BookingStatusCancelled

	case models.BookingStatusCompleted:
		// Completion by plain status write is reserved for the admin
		// override; the regular path is the dual-confirmation protocol.
		if actor.Role != models.RoleAdmin {
			return nil, apperror.Authorization("completion requires both confirmations or an admin override")
		}
		return s.AdminConfirmBoth(ctx, bookingID, actor.UserID)

	case models.BookingStatusRejected:
		return nil, apperror.State("rejection goes through the approval flow")

	case models.BookingStatusPending:
		return nil, apperror.State("cannot transition back to pending")
	}

	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	event := models.EventBookingConfirmed
	if to == models.BookingStatusCancelled {
		event = models.EventBookingCancelled
	}
	s.emit(ctx, booking.CustomerID, event, booking.ID)
	if booking.HelperID != nil {
		s.emitToHelper(ctx, *booking.HelperID, event, booking.ID)
	}
	return booking, nil
}

// Cancel cancels a non-terminal booking on behalf of its customer or an
// admin.
func (s *BookingService) Cancel(ctx context.Context, bookingID uint, actor Actor) (*models.Booking, error) {
	return s.UpdateStatus(ctx, bookingID, models.BookingStatusCancelled, actor)
}

// ConfirmByCustomer records the customer's completion confirmation.
func (s *BookingService) ConfirmByCustomer(ctx context.Context, bookingID, customerID uint) (*models.Booking, error) {
	return s.confirm(ctx, bookingID, Actor{UserID: customerID, Role: models.RoleCustomer})
}

// ConfirmByHelper records the helper's completion confirmation.
func (s *BookingService) ConfirmByHelper(ctx context.Context, bookingID, helperUserID uint) (*models.Booking, error) {
	return s.confirm(ctx, bookingID, Actor{UserID: helperUserID, Role: models.RoleHelper})
}

// confirm is the dual-confirmation protocol: each party flips its own
// flag once the scheduled end time has passed; the second flag
// auto-advances the booking to completed.
func (s *BookingService) confirm(ctx context.Context, bookingID uint, actor Actor) (*models.Booking, error) {
	booking, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperror.State("booking %d is %s and accepts no transitions", booking.ID, booking.Status)
	}
	if booking.HelperID == nil {
		return nil, apperror.State("cannot confirm completion before a helper is assigned")
	}
	if s.now().Before(booking.Window().EndsAt()) {
		return nil, apperror.State("cannot confirm completion before the scheduled end time")
	}

	switch actor.Role {
	case models.RoleCustomer:
		if booking.CustomerID != actor.UserID {
			return nil, apperror.Authorization("only the booking's customer may confirm")
		}
		if booking.CustomerConfirmed {
			return nil, apperror.State("customer has already confirmed booking %d", booking.ID)
		}
		booking.CustomerConfirmed = true
	case models.RoleHelper:
		profile, err := s.helpers.ByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if *booking.HelperID != profile.ID {
			return nil, apperror.Authorization("only the booking's helper may confirm")
		}
		if booking.HelperConfirmed {
			return nil, apperror.State("helper has already confirmed booking %d", booking.ID)
		}
		booking.HelperConfirmed = true
	default:
		return nil, apperror.Authorization("only the booking's parties may confirm")
	}

	completed := booking.CustomerConfirmed && booking.HelperConfirmed
	if completed {
		booking.Status = models.BookingStatusCompleted
	}
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	if completed {
		s.emit(ctx, booking.CustomerID, models.EventBookingCompleted, booking.ID)
		s.emitToHelper(ctx, *booking.HelperID, models.EventBookingCompleted, booking.ID)
	}
	return booking, nil
}

// AdminConfirmBoth is the administrative completion override: it sets
// both confirmation flags and completes the booking in one transition,
// logged as an override.
func (s *BookingService) AdminConfirmBoth(ctx context.Context, bookingID, adminID uint) (*models.Booking, error) {
	booking, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperror.State("booking %d is %s and accepts no transitions", booking.ID, booking.Status)
	}
	if booking.HelperID == nil {
		return nil, apperror.State("cannot complete a booking with no helper assigned")
	}
	if s.now().Before(booking.Window().EndsAt()) {
		return nil, apperror.State("cannot complete a booking before its scheduled end time")
	}

	booking.CustomerConfirmed = true
	booking.HelperConfirmed = true
	booking.Status = models.BookingStatusCompleted
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	log.Printf("🛡️ Admin %d completed booking %d by override", adminID, booking.ID)
	s.emit(ctx, booking.CustomerID, models.EventBookingCompleted, booking.ID)
	s.emitToHelper(ctx, *booking.HelperID, models.EventBookingCompleted, booking.ID)
	return booking, nil
}

// ConfirmPayment moves the payment axis unpaid -> paid. Legal only on a
// completed booking; not reversible.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID uint) (*models.Booking, error) {
	booking, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, apperror.State("payment can only be confirmed on a completed booking, not %s", booking.Status)
	}
	if booking.PaymentStatus == models.PaymentPaid {
		return nil, apperror.State("booking %d is already paid", booking.ID)
	}

	booking.PaymentStatus = models.PaymentPaid
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	s.emit(ctx, booking.CustomerID, models.EventPaymentConfirmed, booking.ID)
	if booking.HelperID != nil {
		s.emitToHelper(ctx, *booking.HelperID, models.EventPaymentConfirmed, booking.ID)
	}
	return booking, nil
}
