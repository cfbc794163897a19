package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// ServiceRepo reads the service catalog.
type ServiceRepo struct {
	db *gorm.DB
}

// NewServiceRepo creates a new service repository
func NewServiceRepo(db *gorm.DB) *ServiceRepo {
	return &ServiceRepo{db: db}
}

func (r *ServiceRepo) ByID(ctx context.Context, id uint) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("service %d not found", id)
		}
		return nil, err
	}
	return &svc, nil
}

// ListActive returns the active catalog for public browsing.
func (r *ServiceRepo) ListActive(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&services).Error
	return services, err
}
