// Package notify carries booking lifecycle events out of the core.
// Implementations are best-effort by contract: the caller logs and
// moves on when delivery fails.
package notify

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"homehelp-server/models"
)

// Store persists events as notification rows for the recipient's inbox.
// Downstream delivery (push, chat, UI) consumes those rows; this core
// only writes them.
type Store struct {
	db *gorm.DB
}

// NewStore creates a notification store gateway
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Notify(ctx context.Context, userID uint, event models.BookingEvent, bookingID uint) error {
	notification := models.Notification{
		UserID:    userID,
		Event:     event,
		BookingID: bookingID,
		Body:      bodyFor(event),
	}
	return s.db.WithContext(ctx).Create(&notification).Error
}

func bodyFor(event models.BookingEvent) string {
	switch event {
	case models.EventBookingCreated:
		return "Your booking was received and is awaiting processing."
	case models.EventBookingApproved:
		return "Your booking was approved and is now visible to helpers."
	case models.EventBookingRejected:
		return "Your booking was rejected. See the admin note for details."
	case models.EventHelperAssigned:
		return "A helper has been assigned to your booking."
	case models.EventJobAccepted:
		return "A helper accepted the job."
	case models.EventBookingConfirmed:
		return "The booking was confirmed."
	case models.EventBookingCompleted:
		return "The booking was completed."
	case models.EventBookingCancelled:
		return "The booking was cancelled."
	case models.EventBookingExpired:
		return "Your booking expired before a helper claimed it."
	case models.EventPaymentConfirmed:
		return "Payment for the booking was confirmed."
	case models.EventGuestCredentials:
		return "Your account was created. Check your email or SMS for sign-in instructions."
	default:
		return fmt.Sprintf("Booking update: %s", event)
	}
}
