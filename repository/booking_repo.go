package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// BookingRepo persists bookings in Postgres through GORM. The db handle
// is injected; each method is its own transaction scope.
type BookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo creates a new booking repository
func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Create(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepo) ByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("booking %d not found", id)
		}
		return nil, err
	}
	return &b, nil
}

// Save commits a transition guarded on the UpdatedAt value carried by
// the read that produced b. Any concurrent writer bumps updated_at, so
// a stale read can never overwrite a committed claim or confirmation
// flag; the caller gets a conflict and must re-read.
func (r *BookingRepo) Save(ctx context.Context, b *models.Booking) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND updated_at = ?", b.ID, b.UpdatedAt).
		Updates(map[string]interface{}{
			"helper_id":          b.HelperID,
			"quantity":           b.Quantity,
			"total_price":        b.TotalPrice,
			"start_date":         b.StartDate,
			"end_date":           b.EndDate,
			"shift_start":        b.ShiftStart,
			"shift_end":          b.ShiftEnd,
			"status":             b.Status,
			"approval_status":    b.ApprovalStatus,
			"payment_status":     b.PaymentStatus,
			"customer_confirmed": b.CustomerConfirmed,
			"helper_confirmed":   b.HelperConfirmed,
			"address":            b.Address,
			"province":           b.Province,
			"notes":              b.Notes,
			"admin_note":         b.AdminNote,
			"updated_at":         now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("booking %d was modified concurrently, reload and retry", b.ID)
	}
	b.UpdatedAt = now
	return nil
}

// SaveWithToken persists b only if the stored row still carries the
// caller's UpdatedAt token. A stale token means someone else committed
// in between; the caller gets a conflict instead of a silent overwrite.
func (r *BookingRepo) SaveWithToken(ctx context.Context, b *models.Booking, token time.Time) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND updated_at = ?", b.ID, token).
		Updates(map[string]interface{}{
			"quantity":    b.Quantity,
			"total_price": b.TotalPrice,
			"start_date":  b.StartDate,
			"end_date":    b.EndDate,
			"shift_start": b.ShiftStart,
			"shift_end":   b.ShiftEnd,
			"address":     b.Address,
			"province":    b.Province,
			"notes":       b.Notes,
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("booking %d was modified concurrently, reload and retry", b.ID)
	}
	// The caller hands b back to the client; it must carry the fresh
	// token or the next token round-trip always conflicts.
	b.UpdatedAt = now
	return nil
}

// ClaimJob is the arbiter's atomic compare-and-set: one UPDATE guarded
// by the unassigned precondition. Zero rows affected means another
// caller won the race (or the precondition no longer holds).
func (r *BookingRepo) ClaimJob(ctx context.Context, bookingID, helperID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND helper_id IS NULL AND status = ? AND approval_status = ?",
			bookingID, models.BookingStatusPending, models.ApprovalApproved).
		Updates(map[string]interface{}{
			"helper_id":  helperID,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReleaseClaim undoes a claim that turned out to double-book the
// helper. Guarded on the helper still holding the claim, so a release
// can never strip someone else's binding.
func (r *BookingRepo) ReleaseClaim(ctx context.Context, bookingID, helperID uint) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND helper_id = ? AND status = ?", bookingID, helperID, models.BookingStatusPending).
		Updates(map[string]interface{}{
			"helper_id":  nil,
			"updated_at": time.Now(),
		}).Error
}

// CancelIfUnclaimed cancels the booking iff it is still a pending,
// unassigned job. Used by the expiration sweeper; the guard makes the
// sweep idempotent and safe against a late concurrent claim.
func (r *BookingRepo) CancelIfUnclaimed(ctx context.Context, bookingID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND helper_id IS NULL AND status = ?", bookingID, models.BookingStatusPending).
		Updates(map[string]interface{}{
			"status":     models.BookingStatusCancelled,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BookingRepo) OccupyingByHelper(ctx context.Context, helperID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("helper_id = ? AND status IN ?", helperID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepo) OpenByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepo) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int64, error) {
	f.Normalize()

	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ApprovalStatus != "" {
		q = q.Where("approval_status = ?", f.ApprovalStatus)
	}
	if f.Unassigned {
		q = q.Where("helper_id IS NULL")
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.HelperID != nil {
		q = q.Where("helper_id = ?", *f.HelperID)
	}
	if f.ServiceID != nil {
		q = q.Where("service_id = ?", *f.ServiceID)
	}
	if f.Province != "" {
		q = q.Where("province = ?", f.Province)
	}
	if f.DateFrom != nil {
		q = q.Where("end_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("start_date <= ?", *f.DateTo)
	}
	if f.MinPrice != nil {
		q = q.Where("total_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("total_price <= ?", *f.MaxPrice)
	}
	// Window exclusion mirrors models.Window.Overlaps: inclusive on the
	// date axis, strict on the shift axis (zero-padded HH:MM strings
	// compare correctly as text). Applied before Count so the total only
	// covers rows that survive the exclusion.
	for _, w := range f.ExcludeWindows {
		q = q.Where("NOT (start_date <= ? AND end_date >= ? AND shift_start < ? AND shift_end > ?)",
			w.EndDate, w.StartDate, w.ShiftEnd, w.ShiftStart)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case models.SortOldest:
		q = q.Order("created_at ASC")
	case models.SortPriceAsc:
		q = q.Order("total_price ASC, id ASC")
	case models.SortPriceDesc:
		q = q.Order("total_price DESC, id ASC")
	case models.SortStartDate:
		q = q.Order("start_date ASC, id ASC")
	default:
		q = q.Order("created_at DESC")
	}

	var bookings []models.Booking
	err := q.Offset(f.Page * f.PageSize).Limit(f.PageSize).Find(&bookings).Error
	return bookings, total, err
}

func (r *BookingRepo) ExpiredUnclaimed(ctx context.Context, now time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND helper_id IS NULL AND start_date < ?", models.BookingStatusPending, now).
		Order("start_date ASC").
		Find(&bookings).Error
	return bookings, err
}

// CreateForGuest runs the guest onboarding write as one transaction:
// look up the account by email, create it if missing, then create the
// booking bound to it. Either both rows commit or neither does.
func (r *BookingRepo) CreateForGuest(ctx context.Context, user *models.User, b *models.Booking) (bool, error) {
	existing := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found models.User
		err := tx.Where("email = ?", user.Email).First(&found).Error
		switch {
		case err == nil:
			existing = true
			*user = found
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(user).Error; err != nil {
				return err
			}
		default:
			return err
		}

		b.CustomerID = user.ID
		return tx.Create(b).Error
	})
	return existing, err
}
