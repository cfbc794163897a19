package repository

import (
	"context"

	"gorm.io/gorm"

	"homehelp-server/models"
)

// RatingRepo persists ratings.
type RatingRepo struct {
	db *gorm.DB
}

// NewRatingRepo creates a new rating repository
func NewRatingRepo(db *gorm.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

func (r *RatingRepo) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *RatingRepo) ExistsForBooking(ctx context.Context, bookingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	return count > 0, err
}

// ByHelper returns a helper's ratings, newest first.
func (r *RatingRepo) ByHelper(ctx context.Context, helperID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("helper_id = ?", helperID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}
