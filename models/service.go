package models

import (
	"time"

	"gorm.io/gorm"
)

// Service represents a home-help service offered on the platform.
type Service struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"type:varchar(200);not null;unique"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	PriceUnit   string  `json:"price_unit" gorm:"type:varchar(50);not null"` // per hour, per day, per visit
	MinQuantity int     `json:"min_quantity" gorm:"not null;default:1"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// PriceFor derives the total price for a requested quantity, clamped to
// the service minimum.
func (s *Service) PriceFor(quantity int) float64 {
	if quantity < s.MinQuantity {
		quantity = s.MinQuantity
	}
	return s.Price * float64(quantity)
}
