package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleHelper   UserRole = "helper"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	FullName     string   `json:"full_name" gorm:"size:255;not null"`
	Email        string   `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PhoneNumber  *string  `json:"phone_number" gorm:"size:20"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'customer';check:role IN ('customer','helper','admin')"`
	// Set for accounts provisioned during guest onboarding; cleared once
	// the user picks their own password.
	MustChangePassword bool      `json:"must_change_password" gorm:"not null;default:false"`
	IsActive           bool      `json:"is_active" gorm:"default:true"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:CustomerID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}

// IsHelper checks if the user is a helper
func (u *User) IsHelper() bool {
	return u.Role == RoleHelper
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsCustomer checks if the user is a customer
func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}
