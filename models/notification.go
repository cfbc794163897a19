package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is one delivered lifecycle event, persisted for the
// recipient's inbox. Delivery beyond this row (push, chat, UI) is the
// concern of downstream consumers, not this core.
type Notification struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    uint         `json:"user_id" gorm:"not null;index"`
	Event     BookingEvent `json:"event" gorm:"type:varchar(40);not null"`
	BookingID uint         `json:"booking_id" gorm:"not null;index"`
	Body      string       `json:"body" gorm:"type:text"`
	Read      bool         `json:"read" gorm:"default:false"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
