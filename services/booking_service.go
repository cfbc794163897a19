package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// BookingService is the booking core: it owns every state transition a
// booking can make. Mutations go through the lifecycle guards in
// lifecycle.go and the arbiter in acceptance.go; nothing else writes
// booking rows.
type BookingService struct {
	bookings BookingStore
	helpers  HelperStore
	users    UserStore
	catalog  ServiceStore
	matcher  *AvailabilityMatcher
	gateway  NotificationGateway
	now      func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(bookings BookingStore, helpers HelperStore, users UserStore, catalog ServiceStore, gateway NotificationGateway) *BookingService {
	return &BookingService{
		bookings: bookings,
		helpers:  helpers,
		users:    users,
		catalog:  catalog,
		matcher:  NewAvailabilityMatcher(helpers, bookings),
		gateway:  gateway,
		now:      time.Now,
	}
}

// Matcher exposes the availability matcher for read-only callers.
func (s *BookingService) Matcher() *AvailabilityMatcher {
	return s.matcher
}

// Create handles both entry paths. With a pre-selected helper (or an
// admin creating on a customer's behalf) the booking starts approved
// and the helper is bound immediately through the same claim path job
// acceptance uses. Without one it is a job post awaiting admin
// approval.
func (s *BookingService) Create(ctx context.Context, customerID uint, in models.BookingCreate, byAdmin bool) (*models.Booking, error) {
	booking, err := s.buildBooking(ctx, customerID, in, byAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.emit(ctx, booking.CustomerID, models.EventBookingCreated, booking.ID)

	if in.HelperID != nil {
		bound, err := s.bindHelper(ctx, booking, *in.HelperID, models.EventHelperAssigned)
		if err != nil {
			// The booking exists but the helper could not be bound;
			// compensate so no half-assigned row survives.
			s.compensateFailedBind(ctx, booking)
			return nil, err
		}
		return bound, nil
	}
	return booking, nil
}

func (s *BookingService) buildBooking(ctx context.Context, customerID uint, in models.BookingCreate, byAdmin bool) (*models.Booking, error) {
	window := in.Window()
	if err := window.Validate(); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	// Quantity zero means "use the service minimum"; only negative
	// values are rejected. Update applies the same policy.
	if in.Quantity < 0 {
		return nil, apperror.Validation("quantity must not be negative")
	}

	svc, err := s.catalog.ByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperror.Validation("service %q is not active", svc.Name)
	}

	if _, err := s.users.ByID(ctx, customerID); err != nil {
		return nil, err
	}

	// Policy: a customer may not hold two open bookings for the same
	// service with overlapping windows.
	open, err := s.bookings.OpenByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for i := range open {
		if open[i].ServiceID == in.ServiceID && open[i].Window().Overlaps(window) {
			return nil, apperror.Conflict("you already have an open booking for this service in that window")
		}
	}

	quantity := in.Quantity
	if quantity < svc.MinQuantity {
		quantity = svc.MinQuantity
	}

	approval := models.ApprovalPending
	if byAdmin || in.HelperID != nil {
		// Direct assignments skip the job-post approval queue.
		approval = models.ApprovalApproved
	}

	return &models.Booking{
		Reference:      uuid.NewString(),
		CustomerID:     customerID,
		ServiceID:      svc.ID,
		Quantity:       quantity,
		TotalPrice:     svc.PriceFor(quantity),
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		ShiftStart:     in.ShiftStart,
		ShiftEnd:       in.ShiftEnd,
		Status:         models.BookingStatusPending,
		ApprovalStatus: approval,
		PaymentStatus:  models.PaymentUnpaid,
		Address:        in.Address,
		Province:       in.Province,
		Notes:          in.Notes,
	}, nil
}

// compensateFailedBind cancels a booking created on the direct path
// whose helper bind failed, so the caller can retry with another
// helper.
func (s *BookingService) compensateFailedBind(ctx context.Context, booking *models.Booking) {
	if _, err := s.bookings.CancelIfUnclaimed(ctx, booking.ID); err != nil {
		log.Printf("⚠️ Failed to cancel booking %d after bind failure: %v", booking.ID, err)
	}
}

// Update applies a partial update under the optimistic-concurrency
// token. Only the booking's customer or an admin may update, and only
// while the booking is pending and unassigned; rescheduling an accepted
// engagement goes through cancellation instead.
func (s *BookingService) Update(ctx context.Context, bookingID uint, patch models.BookingPatch, token time.Time, actor Actor) (*models.Booking, error) {
	booking, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && booking.CustomerID != actor.UserID {
		return nil, apperror.Authorization("only the booking's customer may update it")
	}
	if booking.Status != models.BookingStatusPending {
		return nil, apperror.State("cannot update a booking in status %s", booking.Status)
	}
	if booking.HelperID != nil {
		return nil, apperror.State("cannot update a booking after a helper is assigned")
	}

	if patch.StartDate != nil {
		booking.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		booking.EndDate = *patch.EndDate
	}
	if patch.ShiftStart != nil {
		booking.ShiftStart = *patch.ShiftStart
	}
	if patch.ShiftEnd != nil {
		booking.ShiftEnd = *patch.ShiftEnd
	}
	if err := booking.Window().Validate(); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	if patch.Quantity != nil {
		// Same policy as creation: zero clamps to the service minimum,
		// negative is invalid.
		if *patch.Quantity < 0 {
			return nil, apperror.Validation("quantity must not be negative")
		}
		svc, err := s.catalog.ByID(ctx, booking.ServiceID)
		if err != nil {
			return nil, err
		}
		quantity := *patch.Quantity
		if quantity < svc.MinQuantity {
			quantity = svc.MinQuantity
		}
		booking.Quantity = quantity
		booking.TotalPrice = svc.PriceFor(quantity)
	}
	if patch.Address != nil {
		booking.Address = *patch.Address
	}
	if patch.Province != nil {
		booking.Province = *patch.Province
	}
	if patch.Notes != nil {
		booking.Notes = patch.Notes
	}

	if err := s.bookings.SaveWithToken(ctx, booking, token); err != nil {
		return nil, err
	}
	return booking, nil
}

// Get returns a booking visible to the actor: its customer, its bound
// helper, or an admin.
func (s *BookingService) Get(ctx context.Context, bookingID uint, actor Actor) (*models.Booking, error) {
	booking, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleAdmin || booking.CustomerID == actor.UserID {
		return booking, nil
	}
	if booking.HelperID != nil {
		profile, err := s.helpers.ByID(ctx, *booking.HelperID)
		if err == nil && profile.UserID == actor.UserID {
			return booking, nil
		}
	}
	return nil, apperror.Authorization("access denied")
}

// ListAvailableJobs returns the approved, unclaimed job posts a helper
// could accept: capability-matched and not overlapping the helper's own
// schedule.
func (s *BookingService) ListAvailableJobs(ctx context.Context, helperUserID uint, f models.BookingFilter) (models.BookingPage, error) {
	profile, err := s.helpers.ByUserID(ctx, helperUserID)
	if err != nil {
		return models.BookingPage{}, err
	}
	if !profile.IsActive {
		return models.BookingPage{}, apperror.State("helper profile is not active")
	}

	f.Status = models.BookingStatusPending
	f.ApprovalStatus = models.ApprovalApproved
	f.Unassigned = true
	if f.ServiceID == nil {
		f.ServiceID = &profile.ServiceID
	}
	f.Normalize()

	// Exclude jobs overlapping the helper's own schedule in the query
	// itself, before paging, so TotalCount and page boundaries only
	// cover jobs the helper can actually take.
	mine, err := s.bookings.OccupyingByHelper(ctx, profile.ID)
	if err != nil {
		return models.BookingPage{}, err
	}
	for i := range mine {
		f.ExcludeWindows = append(f.ExcludeWindows, mine[i].Window())
	}

	items, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return models.BookingPage{}, err
	}

	return models.BookingPage{Items: items, TotalCount: total, PageIndex: f.Page, PageSize: f.PageSize}, nil
}

// ListHelperJobs returns the bookings bound to the helper.
func (s *BookingService) ListHelperJobs(ctx context.Context, helperUserID uint, f models.BookingFilter) (models.BookingPage, error) {
	profile, err := s.helpers.ByUserID(ctx, helperUserID)
	if err != nil {
		return models.BookingPage{}, err
	}
	f.HelperID = &profile.ID
	f.Normalize()

	items, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return models.BookingPage{}, err
	}
	return models.BookingPage{Items: items, TotalCount: total, PageIndex: f.Page, PageSize: f.PageSize}, nil
}

// ListCustomerBookings returns the customer's own bookings.
func (s *BookingService) ListCustomerBookings(ctx context.Context, customerID uint, f models.BookingFilter) (models.BookingPage, error) {
	f.CustomerID = &customerID
	f.Normalize()

	items, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return models.BookingPage{}, err
	}
	return models.BookingPage{Items: items, TotalCount: total, PageIndex: f.Page, PageSize: f.PageSize}, nil
}

// ListAll returns any bookings matching the filter. Admin surface only.
func (s *BookingService) ListAll(ctx context.Context, f models.BookingFilter) (models.BookingPage, error) {
	f.Normalize()

	items, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return models.BookingPage{}, err
	}
	return models.BookingPage{Items: items, TotalCount: total, PageIndex: f.Page, PageSize: f.PageSize}, nil
}

// ListPendingApprovals returns job posts awaiting admin review.
func (s *BookingService) ListPendingApprovals(ctx context.Context, f models.BookingFilter) (models.BookingPage, error) {
	f.Status = models.BookingStatusPending
	f.ApprovalStatus = models.ApprovalPending
	f.Normalize()

	items, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return models.BookingPage{}, err
	}
	return models.BookingPage{Items: items, TotalCount: total, PageIndex: f.Page, PageSize: f.PageSize}, nil
}

// HelperSchedule returns the helper's occupied slots between fromDate
// and toDate inclusive.
func (s *BookingService) HelperSchedule(ctx context.Context, helperID uint, fromDate, toDate time.Time) ([]models.ScheduleEntry, error) {
	if _, err := s.helpers.ByID(ctx, helperID); err != nil {
		return nil, err
	}
	occupying, err := s.bookings.OccupyingByHelper(ctx, helperID)
	if err != nil {
		return nil, err
	}

	rangeWindow := models.Window{StartDate: fromDate, EndDate: toDate, ShiftStart: "00:00", ShiftEnd: "23:59"}
	entries := make([]models.ScheduleEntry, 0, len(occupying))
	for i := range occupying {
		b := &occupying[i]
		if !b.Window().Overlaps(rangeWindow) {
			continue
		}
		entries = append(entries, models.ScheduleEntry{
			BookingID:  b.ID,
			Reference:  b.Reference,
			ServiceID:  b.ServiceID,
			CustomerID: b.CustomerID,
			StartDate:  b.StartDate,
			EndDate:    b.EndDate,
			ShiftStart: b.ShiftStart,
			ShiftEnd:   b.ShiftEnd,
			Status:     b.Status,
			Address:    b.Address,
		})
	}
	return entries, nil
}

// emit sends one lifecycle event to the notification gateway.
// Best-effort: a delivery failure is logged and never fails the
// transition that produced it.
func (s *BookingService) emit(ctx context.Context, userID uint, event models.BookingEvent, bookingID uint) {
	if s.gateway == nil {
		return
	}
	if err := s.gateway.Notify(ctx, userID, event, bookingID); err != nil {
		log.Printf("⚠️ Failed to deliver %s for booking %d to user %d: %v", event, bookingID, userID, err)
	}
}

// emitToHelper resolves the helper profile to its user before emitting.
func (s *BookingService) emitToHelper(ctx context.Context, helperID uint, event models.BookingEvent, bookingID uint) {
	profile, err := s.helpers.ByID(ctx, helperID)
	if err != nil {
		log.Printf("⚠️ Cannot resolve helper %d for %s on booking %d: %v", helperID, event, bookingID, err)
		return
	}
	s.emit(ctx, profile.UserID, event, bookingID)
}
