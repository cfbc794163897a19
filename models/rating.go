package models

import (
	"time"

	"gorm.io/gorm"
)

// Rating is a customer's rating of a helper for one completed booking.
type Rating struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	BookingID  uint   `json:"booking_id" gorm:"uniqueIndex;not null"` // one rating per booking
	CustomerID uint   `json:"customer_id" gorm:"not null"`
	HelperID   uint   `json:"helper_id" gorm:"not null;index"`
	Stars      int    `json:"stars" gorm:"type:int;not null;check:stars >= 1 AND stars <= 5"`
	Comment    string `json:"comment" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Booking  Booking       `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Customer User          `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Helper   HelperProfile `json:"helper,omitempty" gorm:"foreignKey:HelperID"`
}

// TableName specifies the table name for the Rating model
func (Rating) TableName() string {
	return "ratings"
}

// RatingCreate is the request structure for rating a completed booking.
type RatingCreate struct {
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
