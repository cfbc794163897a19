package models

import "time"

// BookingPage is one page of a booking listing.
type BookingPage struct {
	Items      []Booking `json:"items"`
	TotalCount int64     `json:"total_count"`
	PageIndex  int       `json:"page_index"`
	PageSize   int       `json:"page_size"`
}

// Booking list sort keys. Anything else falls back to newest-first.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortStartDate = "start_date"
)

// BookingFilter narrows and pages a booking listing. Nil/zero fields
// are not applied.
type BookingFilter struct {
	Status         BookingStatus
	ApprovalStatus ApprovalStatus
	Unassigned     bool // helper_id IS NULL
	CustomerID     *uint
	HelperID       *uint
	ServiceID      *uint
	Province       string
	DateFrom       *time.Time // bookings whose range touches [DateFrom, DateTo]
	DateTo         *time.Time
	MinPrice       *float64
	MaxPrice       *float64

	// ExcludeWindows drops bookings overlapping any of these windows.
	// Applied inside the query, before counting and paging, so totals
	// stay exact.
	ExcludeWindows []Window

	Sort     string
	Page     int // zero-based
	PageSize int
}

// Normalize clamps paging to sane bounds.
func (f *BookingFilter) Normalize() {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}
