package services

import (
	"context"
	"time"

	"homehelp-server/models"
)

// The booking core talks to persistence through these narrow store
// interfaces. Implementations live in the repository package; each call
// is its own transaction scope. Stores return apperror values for
// not-found and conflict conditions so services can pass them through.

// BookingStore persists bookings. ClaimJob and CancelIfUnclaimed are
// atomic conditional writes (single guarded UPDATE, not read-then-write);
// SaveWithToken applies the optimistic-concurrency check on UpdatedAt.
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	ByID(ctx context.Context, id uint) (*models.Booking, error)

	// Save persists b only if the stored row still carries b.UpdatedAt
	// from the read that produced it, returning a conflict error
	// otherwise. Transitions built on a stale read never overwrite a
	// concurrently committed claim or confirmation. On success
	// b.UpdatedAt is refreshed to the written token.
	Save(ctx context.Context, b *models.Booking) error

	// SaveWithToken is Save guarded on an explicit client-supplied
	// token instead of the read's UpdatedAt.
	SaveWithToken(ctx context.Context, b *models.Booking, token time.Time) error

	// ClaimJob binds helperID to the booking iff it is still an
	// unassigned, approved, pending job. Returns false when another
	// caller won the race or the precondition no longer holds.
	ClaimJob(ctx context.Context, bookingID, helperID uint) (bool, error)

	// ReleaseClaim undoes a ClaimJob that turned out to double-book the
	// helper. Only clears the binding if helperID still holds it.
	ReleaseClaim(ctx context.Context, bookingID, helperID uint) error

	// CancelIfUnclaimed cancels the booking iff it is still pending and
	// unassigned. Returns false when a late claim or an earlier sweep
	// got there first.
	CancelIfUnclaimed(ctx context.Context, bookingID uint) (bool, error)

	// OccupyingByHelper returns the bookings currently occupying the
	// helper's schedule (pending-accepted or confirmed).
	OccupyingByHelper(ctx context.Context, helperID uint) ([]models.Booking, error)

	// OpenByCustomer returns the customer's non-terminal bookings.
	OpenByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error)

	List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int64, error)

	// ExpiredUnclaimed returns pending, unassigned bookings whose start
	// date has passed now.
	ExpiredUnclaimed(ctx context.Context, now time.Time) ([]models.Booking, error)

	// CreateForGuest creates the booking and, when the email is new, the
	// user, as one atomic unit. When the email already belongs to an
	// account, user is overwritten with the existing row and the booking
	// is attached to it; existing reports which case occurred.
	CreateForGuest(ctx context.Context, user *models.User, b *models.Booking) (existing bool, err error)
}

// HelperStore reads helper profiles.
type HelperStore interface {
	ByID(ctx context.Context, id uint) (*models.HelperProfile, error)
	ByUserID(ctx context.Context, userID uint) (*models.HelperProfile, error)
	Active(ctx context.Context, f models.HelperFilter) ([]models.HelperProfile, error)
}

// UserStore reads users by id.
type UserStore interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
}

// ServiceStore reads the service catalog.
type ServiceStore interface {
	ByID(ctx context.Context, id uint) (*models.Service, error)
	ListActive(ctx context.Context) ([]models.Service, error)
}

// RatingStore persists ratings.
type RatingStore interface {
	Create(ctx context.Context, r *models.Rating) error
	ExistsForBooking(ctx context.Context, bookingID uint) (bool, error)
	ByHelper(ctx context.Context, helperID uint) ([]models.Rating, error)
}

// RatingRecomputer recomputes a helper's rating aggregate. Called
// explicitly by the rating service on every rating creation; the
// average itself is not computed here.
type RatingRecomputer interface {
	RecomputeHelperRating(ctx context.Context, helperID uint) error
}

// NotificationGateway receives lifecycle events. Delivery is
// best-effort: services log failures and never roll back a committed
// transition because of one.
type NotificationGateway interface {
	Notify(ctx context.Context, userID uint, event models.BookingEvent, bookingID uint) error
}

// CaptchaVerifier validates guest captcha tokens.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// Actor is the authenticated party attempting an operation.
type Actor struct {
	UserID uint
	Role   models.UserRole
}
