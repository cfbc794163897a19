package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// HelperRepo reads helper profiles. It also carries the rating
// aggregate recompute, since the aggregate lives on the profile row.
type HelperRepo struct {
	db *gorm.DB
}

// NewHelperRepo creates a new helper repository
func NewHelperRepo(db *gorm.DB) *HelperRepo {
	return &HelperRepo{db: db}
}

func (r *HelperRepo) ByID(ctx context.Context, id uint) (*models.HelperProfile, error) {
	var profile models.HelperProfile
	if err := r.db.WithContext(ctx).Preload("User").First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("helper %d not found", id)
		}
		return nil, err
	}
	return &profile, nil
}

func (r *HelperRepo) ByUserID(ctx context.Context, userID uint) (*models.HelperProfile, error) {
	var profile models.HelperProfile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("helper profile for user %d not found", userID)
		}
		return nil, err
	}
	return &profile, nil
}

func (r *HelperRepo) Active(ctx context.Context, f models.HelperFilter) ([]models.HelperProfile, error) {
	q := r.db.WithContext(ctx).Preload("User").Where("is_active = ?", true)
	if f.ServiceID != 0 {
		q = q.Where("service_id = ?", f.ServiceID)
	}
	if f.Province != "" {
		q = q.Where("province = ?", f.Province)
	}

	var profiles []models.HelperProfile
	err := q.Find(&profiles).Error
	return profiles, err
}

// RecomputeHelperRating refreshes the profile's rating aggregate from
// the ratings table in one statement. Called explicitly on rating
// creation; there is no storage-side trigger.
func (r *HelperRepo) RecomputeHelperRating(ctx context.Context, helperID uint) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE helper_profiles SET
			rating = COALESCE((SELECT AVG(stars) FROM ratings WHERE helper_id = ? AND deleted_at IS NULL), 0),
			total_ratings = (SELECT COUNT(*) FROM ratings WHERE helper_id = ? AND deleted_at IS NULL)
		WHERE id = ?`, helperID, helperID, helperID).Error
}
