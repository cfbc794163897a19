package services

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"homehelp-server/apperror"
	"homehelp-server/models"
	"homehelp-server/utils"
)

// GuestService provisions an account and a job-post booking for
// unauthenticated submitters in one atomic unit.
type GuestService struct {
	bookings BookingStore
	catalog  ServiceStore
	captcha  CaptchaVerifier
	gateway  NotificationGateway
	validate *validator.Validate
}

// NewGuestService creates a new guest onboarding service
func NewGuestService(bookings BookingStore, catalog ServiceStore, captcha CaptchaVerifier, gateway NotificationGateway) *GuestService {
	return &GuestService{
		bookings: bookings,
		catalog:  catalog,
		captcha:  captcha,
		gateway:  gateway,
		validate: validator.New(),
	}
}

// CreateBooking validates the captcha, then creates (or reuses) the
// account for the submitted email and creates the pending job post,
// both inside one transaction. The plaintext temporary password is
// handed to the notifier only; the response carries a masked message
// and the logs never see it.
func (s *GuestService) CreateBooking(ctx context.Context, in models.GuestBookingCreate, captchaToken string) (*models.GuestBookingResult, error) {
	ok, err := s.captcha.Verify(ctx, captchaToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Validation("captcha verification failed")
	}

	if err := s.validate.Struct(in); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	window := in.Window()
	if err := window.Validate(); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}

	svc, err := s.catalog.ByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperror.Validation("service %q is not active", svc.Name)
	}

	tempPassword := uuid.NewString()
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	var phone *string
	if in.Phone != "" {
		phone = &in.Phone
	}
	user := &models.User{
		FullName:           in.FullName,
		Email:              in.Email,
		PhoneNumber:        phone,
		PasswordHash:       hash,
		Role:               models.RoleCustomer,
		MustChangePassword: true,
		IsActive:           true,
	}

	quantity := in.Quantity
	if quantity < svc.MinQuantity {
		quantity = svc.MinQuantity
	}
	booking := &models.Booking{
		Reference:      uuid.NewString(),
		ServiceID:      svc.ID,
		Quantity:       quantity,
		TotalPrice:     svc.PriceFor(quantity),
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		ShiftStart:     in.ShiftStart,
		ShiftEnd:       in.ShiftEnd,
		Status:         models.BookingStatusPending,
		ApprovalStatus: models.ApprovalPending,
		PaymentStatus:  models.PaymentUnpaid,
		Address:        in.Address,
		Province:       in.Province,
		Notes:          in.Notes,
	}

	// User creation and booking creation commit or fail together; a
	// booking must never reference a user that failed to persist. An
	// email that already has an account reuses it, so repeat guest
	// submissions converge on one account id.
	existing, err := s.bookings.CreateForGuest(ctx, user, booking)
	if err != nil {
		return nil, err
	}

	if existing {
		log.Printf("📩 Guest booking %d attached to existing account %d", booking.ID, user.ID)
	} else {
		log.Printf("📩 Guest booking %d created with new account %d", booking.ID, user.ID)
		// Credentials are delivered out of band by the gateway consumer;
		// the event carries no secret, just the pointer.
		if err := s.gateway.Notify(ctx, user.ID, models.EventGuestCredentials, booking.ID); err != nil {
			log.Printf("⚠️ Failed to queue credentials notification for user %d: %v", user.ID, err)
		}
	}
	if err := s.gateway.Notify(ctx, user.ID, models.EventBookingCreated, booking.ID); err != nil {
		log.Printf("⚠️ Failed to deliver booking_created for booking %d: %v", booking.ID, err)
	}

	return &models.GuestBookingResult{
		Booking: booking,
		Message: "Your booking was received. Check your email or SMS for sign-in instructions.",
	}, nil
}
