package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// UserRepo reads users.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user %d not found", id)
		}
		return nil, err
	}
	return &user, nil
}
