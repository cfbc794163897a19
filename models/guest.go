package models

// GuestBookingCreate is the request structure for an unauthenticated
// booking submission. Validated with go-playground/validator beyond the
// gin binding layer, since guests are the one untrusted entry point.
type GuestBookingCreate struct {
	FullName string `json:"full_name" binding:"required" validate:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=8,max=20"`

	BookingCreate
}

// GuestBookingResult is the response for a guest submission. The
// temporary password is delivered out of band; the message never
// contains it.
type GuestBookingResult struct {
	Booking *Booking `json:"booking"`
	Message string   `json:"message"`
}
