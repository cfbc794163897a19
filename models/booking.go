package models

import (
	"time"
)

// BookingStatus is the operational state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsTerminal reports whether the status accepts no further transitions.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusRejected, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsValid reports whether s is one of the closed set of statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusRejected,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// ApprovalStatus is the admin-approval axis, independent of the
// operational status. Only meaningful for job-post bookings; a booking
// created with a pre-selected helper starts approved.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Booking is the central entity: one engagement between a customer and
// (eventually) a helper, occupying the helper's schedule for its window.
// Bookings are never deleted; terminal rows are retained as history.
type Booking struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	Reference  string  `json:"reference" gorm:"size:36;uniqueIndex;not null"`
	CustomerID uint    `json:"customer_id" gorm:"not null;index"`
	HelperID   *uint   `json:"helper_id" gorm:"index"` // null until a helper is bound
	ServiceID  uint    `json:"service_id" gorm:"not null"`
	Quantity   int     `json:"quantity" gorm:"not null;default:1"`
	TotalPrice float64 `json:"total_price" gorm:"type:decimal(10,2);not null"`

	StartDate  time.Time `json:"start_date" gorm:"not null"`
	EndDate    time.Time `json:"end_date" gorm:"not null"`
	ShiftStart ShiftTime `json:"shift_start" gorm:"size:5;not null"`
	ShiftEnd   ShiftTime `json:"shift_end" gorm:"size:5;not null"`

	Status         BookingStatus  `json:"status" gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','confirmed','rejected','completed','cancelled')"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"type:varchar(20);not null;default:'pending';check:approval_status IN ('pending','approved','rejected')"`
	PaymentStatus  PaymentStatus  `json:"payment_status" gorm:"type:varchar(20);not null;default:'unpaid';check:payment_status IN ('unpaid','paid')"`

	CustomerConfirmed bool `json:"customer_confirmed" gorm:"not null;default:false"`
	HelperConfirmed   bool `json:"helper_confirmed" gorm:"not null;default:false"`

	Address   string  `json:"address" gorm:"size:500;not null"`
	Province  string  `json:"province" gorm:"size:100;index"`
	Notes     *string `json:"notes" gorm:"size:1000"`
	AdminNote *string `json:"admin_note" gorm:"size:1000"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	// UpdatedAt doubles as the optimistic-concurrency token for plain updates.
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Customer User           `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Helper   *HelperProfile `json:"helper,omitempty" gorm:"foreignKey:HelperID"`
	Service  Service        `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// Window returns the booking's schedule window.
func (b *Booking) Window() Window {
	return Window{
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		ShiftStart: b.ShiftStart,
		ShiftEnd:   b.ShiftEnd,
	}
}

// Occupying reports whether the booking currently occupies its helper's
// schedule: a non-terminal booking with a helper bound (pending-accepted
// or confirmed).
func (b *Booking) Occupying() bool {
	if b.HelperID == nil {
		return false
	}
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// BookingCreate is the request structure for creating a booking.
type BookingCreate struct {
	ServiceID  uint      `json:"service_id" binding:"required"`
	Quantity   int       `json:"quantity"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
	ShiftStart ShiftTime `json:"shift_start" binding:"required"`
	ShiftEnd   ShiftTime `json:"shift_end" binding:"required"`
	Address    string    `json:"address" binding:"required"`
	Province   string    `json:"province"`
	Notes      *string   `json:"notes"`
	HelperID   *uint     `json:"helper_id"` // direct-assignment path when set
}

// Window builds the schedule window from the request.
func (c BookingCreate) Window() Window {
	return Window{
		StartDate:  c.StartDate,
		EndDate:    c.EndDate,
		ShiftStart: c.ShiftStart,
		ShiftEnd:   c.ShiftEnd,
	}
}

// BookingPatch is a partial update to a booking's mutable fields. Nil
// fields are left unchanged.
type BookingPatch struct {
	Quantity   *int       `json:"quantity"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	ShiftStart *ShiftTime `json:"shift_start"`
	ShiftEnd   *ShiftTime `json:"shift_end"`
	Address    *string    `json:"address"`
	Province   *string    `json:"province"`
	Notes      *string    `json:"notes"`
}

// ScheduleEntry is one occupied slot in a helper's schedule.
type ScheduleEntry struct {
	BookingID  uint          `json:"booking_id"`
	Reference  string        `json:"reference"`
	ServiceID  uint          `json:"service_id"`
	CustomerID uint          `json:"customer_id"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	ShiftStart ShiftTime     `json:"shift_start"`
	ShiftEnd   ShiftTime     `json:"shift_end"`
	Status     BookingStatus `json:"status"`
	Address    string        `json:"address"`
}

// BookingEvent identifies a lifecycle transition for the notification
// gateway.
type BookingEvent string

const (
	EventBookingCreated   BookingEvent = "booking_created"
	EventBookingApproved  BookingEvent = "booking_approved"
	EventBookingRejected  BookingEvent = "booking_rejected"
	EventHelperAssigned   BookingEvent = "helper_assigned"
	EventJobAccepted      BookingEvent = "job_accepted"
	EventBookingConfirmed BookingEvent = "booking_confirmed"
	EventBookingCompleted BookingEvent = "booking_completed"
	EventBookingCancelled BookingEvent = "booking_cancelled"
	EventBookingExpired   BookingEvent = "booking_expired"
	EventPaymentConfirmed BookingEvent = "payment_confirmed"
	EventGuestCredentials BookingEvent = "guest_credentials"
)
