package models

import (
	"time"

	"gorm.io/gorm"
)

// HelperProfile represents a helper's professional profile. A user with
// the helper role owns exactly one profile; bookings reference the
// profile id, never the profile struct itself.
type HelperProfile struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	UserID     uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	ServiceID  uint    `json:"service_id" gorm:"not null;index"` // service capability
	Service    Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	Province   string  `json:"province" gorm:"size:100;not null;index"`
	City       string  `json:"city" gorm:"size:100"`
	Bio        string  `json:"bio" gorm:"type:text"`
	HourlyRate float64 `json:"hourly_rate" gorm:"type:decimal(10,2);default:0"`

	IsActive   bool `json:"is_active" gorm:"default:true"`
	IsVerified bool `json:"is_verified" gorm:"default:false"`

	// Rating aggregate, maintained by the aggregate-recompute call on
	// rating creation.
	Rating       float64 `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalRatings int     `json:"total_ratings" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the HelperProfile model
func (HelperProfile) TableName() string {
	return "helper_profiles"
}

// HelperFilter narrows the set of helpers the availability matcher
// enumerates.
type HelperFilter struct {
	ServiceID uint   `json:"service_id"`
	Province  string `json:"province"`
}

// HelperCandidate is one ranked match from the availability matcher.
type HelperCandidate struct {
	HelperID   uint    `json:"helper_id"`
	UserID     uint    `json:"user_id"`
	FullName   string  `json:"full_name"`
	Province   string  `json:"province"`
	HourlyRate float64 `json:"hourly_rate"`
	Rating     float64 `json:"rating"`
}
