package services

import (
	"context"
	"log"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// RatingService lets a customer rate a helper once per completed
// booking. The helper's aggregate is maintained by an explicit
// recompute call on every creation, not by storage-side magic.
type RatingService struct {
	ratings    RatingStore
	bookings   BookingStore
	recomputer RatingRecomputer
}

// NewRatingService creates a new rating service
func NewRatingService(ratings RatingStore, bookings BookingStore, recomputer RatingRecomputer) *RatingService {
	return &RatingService{ratings: ratings, bookings: bookings, recomputer: recomputer}
}

// Create records a rating for a completed booking by its customer.
func (s *RatingService) Create(ctx context.Context, bookingID, customerID uint, in models.RatingCreate) (*models.Rating, error) {
	if in.Stars < 1 || in.Stars > 5 {
		return nil, apperror.Validation("stars must be between 1 and 5")
	}

	booking, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, apperror.Authorization("only the booking's customer may rate it")
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, apperror.State("only completed bookings can be rated")
	}
	if booking.HelperID == nil {
		return nil, apperror.State("booking %d has no helper to rate", booking.ID)
	}

	exists, err := s.ratings.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("booking %d has already been rated", bookingID)
	}

	rating := &models.Rating{
		BookingID:  booking.ID,
		CustomerID: customerID,
		HelperID:   *booking.HelperID,
		Stars:      in.Stars,
		Comment:    in.Comment,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	if err := s.recomputer.RecomputeHelperRating(ctx, *booking.HelperID); err != nil {
		// The rating row is committed; the aggregate catches up on the
		// next recompute.
		log.Printf("⚠️ Failed to recompute rating aggregate for helper %d: %v", *booking.HelperID, err)
	}
	return rating, nil
}

// ListForHelper returns a helper's ratings, newest first.
func (s *RatingService) ListForHelper(ctx context.Context, helperID uint) ([]models.Rating, error) {
	return s.ratings.ByHelper(ctx, helperID)
}
