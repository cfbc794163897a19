package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// In-memory store fakes. The booking fake mirrors the repository
// contract precisely: ClaimJob, ReleaseClaim and CancelIfUnclaimed are
// conditional writes under one mutex, so the concurrency tests exercise
// the same at-most-one semantics the SQL guarded updates provide.

type fakeBookingStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.Booking
	users  map[uint]*models.User // guest onboarding accounts, keyed by id
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{rows: make(map[uint]*models.Booking), users: make(map[uint]*models.User)}
}

func (f *fakeBookingStore) Create(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = f.nextID
	b.UpdatedAt = time.Now()
	cp := *b
	f.rows[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) ByID(ctx context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("booking %d not found", id)
	}
	cp := *row
	return &cp, nil
}

func (f *fakeBookingStore) Save(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[b.ID]
	if !ok {
		return apperror.NotFound("booking %d not found", b.ID)
	}
	if !row.UpdatedAt.Equal(b.UpdatedAt) {
		return apperror.Conflict("booking %d was modified concurrently", b.ID)
	}
	b.UpdatedAt = time.Now()
	cp := *b
	f.rows[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) SaveWithToken(ctx context.Context, b *models.Booking, token time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[b.ID]
	if !ok {
		return apperror.NotFound("booking %d not found", b.ID)
	}
	if !row.UpdatedAt.Equal(token) {
		return apperror.Conflict("booking %d was modified concurrently", b.ID)
	}
	b.UpdatedAt = time.Now()
	cp := *b
	f.rows[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) ClaimJob(ctx context.Context, bookingID, helperID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[bookingID]
	if !ok {
		return false, apperror.NotFound("booking %d not found", bookingID)
	}
	if row.HelperID != nil || row.Status != models.BookingStatusPending || row.ApprovalStatus != models.ApprovalApproved {
		return false, nil
	}
	id := helperID
	row.HelperID = &id
	row.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeBookingStore) ReleaseClaim(ctx context.Context, bookingID, helperID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[bookingID]
	if !ok {
		return apperror.NotFound("booking %d not found", bookingID)
	}
	if row.HelperID != nil && *row.HelperID == helperID && row.Status == models.BookingStatusPending {
		row.HelperID = nil
		row.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeBookingStore) CancelIfUnclaimed(ctx context.Context, bookingID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[bookingID]
	if !ok {
		return false, apperror.NotFound("booking %d not found", bookingID)
	}
	if row.HelperID != nil || row.Status != models.BookingStatusPending {
		return false, nil
	}
	row.Status = models.BookingStatusCancelled
	row.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeBookingStore) OccupyingByHelper(ctx context.Context, helperID uint) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, row := range f.rows {
		if row.Occupying() && *row.HelperID == helperID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) OpenByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, row := range f.rows {
		if row.CustomerID == customerID && !row.Status.IsTerminal() {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, row := range f.rows {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.ApprovalStatus != "" && row.ApprovalStatus != filter.ApprovalStatus {
			continue
		}
		if filter.Unassigned && row.HelperID != nil {
			continue
		}
		if filter.CustomerID != nil && row.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.HelperID != nil && (row.HelperID == nil || *row.HelperID != *filter.HelperID) {
			continue
		}
		if filter.ServiceID != nil && row.ServiceID != *filter.ServiceID {
			continue
		}
		if filter.Province != "" && row.Province != filter.Province {
			continue
		}
		excluded := false
		for _, w := range filter.ExcludeWindows {
			if row.Window().Overlaps(w) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	filter.Normalize()
	total := int64(len(out))
	start := filter.Page * filter.PageSize
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.PageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (f *fakeBookingStore) ExpiredUnclaimed(ctx context.Context, now time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, row := range f.rows {
		if row.Status == models.BookingStatusPending && row.HelperID == nil && row.StartDate.Before(now) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) CreateForGuest(ctx context.Context, user *models.User, b *models.Booking) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing := false
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			*user = *u
			existing = true
			break
		}
	}
	if !existing {
		f.nextID++
		user.ID = f.nextID
		cp := *user
		f.users[user.ID] = &cp
	}
	b.CustomerID = user.ID
	f.nextID++
	b.ID = f.nextID
	b.UpdatedAt = time.Now()
	cp := *b
	f.rows[b.ID] = &cp
	return existing, nil
}

type fakeHelperStore struct {
	mu   sync.Mutex
	rows map[uint]*models.HelperProfile
}

func newFakeHelperStore() *fakeHelperStore {
	return &fakeHelperStore{rows: make(map[uint]*models.HelperProfile)}
}

func (f *fakeHelperStore) add(p models.HelperProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := p
	f.rows[p.ID] = &cp
}

func (f *fakeHelperStore) ByID(ctx context.Context, id uint) (*models.HelperProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("helper profile %d not found", id)
	}
	cp := *row
	return &cp, nil
}

func (f *fakeHelperStore) ByUserID(ctx context.Context, userID uint) (*models.HelperProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.UserID == userID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("no helper profile for user %d", userID)
}

func (f *fakeHelperStore) Active(ctx context.Context, filter models.HelperFilter) ([]models.HelperProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.HelperProfile
	for _, row := range f.rows {
		if !row.IsActive {
			continue
		}
		if filter.ServiceID != 0 && row.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Province != "" && row.Province != filter.Province {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeHelperStore) RecomputeHelperRating(ctx context.Context, helperID uint) error {
	return nil
}

type fakeUserStore struct {
	rows map[uint]*models.User
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	f := &fakeUserStore{rows: make(map[uint]*models.User)}
	for i := range users {
		cp := users[i]
		f.rows[cp.ID] = &cp
	}
	return f
}

func (f *fakeUserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("user %d not found", id)
	}
	cp := *row
	return &cp, nil
}

type fakeServiceStore struct {
	rows map[uint]*models.Service
}

func newFakeServiceStore(svcs ...models.Service) *fakeServiceStore {
	f := &fakeServiceStore{rows: make(map[uint]*models.Service)}
	for i := range svcs {
		cp := svcs[i]
		f.rows[cp.ID] = &cp
	}
	return f
}

func (f *fakeServiceStore) ByID(ctx context.Context, id uint) (*models.Service, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("service %d not found", id)
	}
	cp := *row
	return &cp, nil
}

func (f *fakeServiceStore) ListActive(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	for _, row := range f.rows {
		if row.IsActive {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeRatingStore struct {
	mu   sync.Mutex
	rows []models.Rating
}

func (f *fakeRatingStore) Create(ctx context.Context, r *models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, *r)
	return nil
}

func (f *fakeRatingStore) ExistsForBooking(ctx context.Context, bookingID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRatingStore) ByHelper(ctx context.Context, helperID uint) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Rating
	for i := range f.rows {
		if f.rows[i].HelperID == helperID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

// recordingGateway captures emitted events for assertions.
type recordingGateway struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	UserID    uint
	Event     models.BookingEvent
	BookingID uint
}

func (g *recordingGateway) Notify(ctx context.Context, userID uint, event models.BookingEvent, bookingID uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, recordedEvent{UserID: userID, Event: event, BookingID: bookingID})
	return nil
}

func (g *recordingGateway) count(event models.BookingEvent) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, e := range g.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

type fakeCaptcha struct {
	ok bool
}

func (f fakeCaptcha) Verify(ctx context.Context, token string) (bool, error) {
	return f.ok, nil
}

// Test fixture helpers.

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testService() models.Service {
	return models.Service{ID: 1, Name: "House Cleaning", Price: 15, PriceUnit: "per hour", MinQuantity: 2, IsActive: true}
}

func testHelper(id, userID uint) models.HelperProfile {
	return models.HelperProfile{
		ID:        id,
		UserID:    userID,
		ServiceID: 1,
		Province:  "Tunis",
		IsActive:  true,
		User:      models.User{ID: userID, FullName: "Helper"},
	}
}

func newTestBookingService(bookings *fakeBookingStore, helpers *fakeHelperStore, gateway *recordingGateway) *BookingService {
	users := newFakeUserStore(models.User{ID: 10, FullName: "Customer", Role: models.RoleCustomer, IsActive: true})
	catalog := newFakeServiceStore(testService())
	return NewBookingService(bookings, helpers, users, catalog, gateway)
}

func seedJobPost(bookings *fakeBookingStore, customerID uint) *models.Booking {
	b := &models.Booking{
		Reference:      "ref-seed",
		CustomerID:     customerID,
		ServiceID:      1,
		Quantity:       2,
		TotalPrice:     30,
		StartDate:      date(2026, time.September, 1),
		EndDate:        date(2026, time.September, 5),
		ShiftStart:     "08:00",
		ShiftEnd:       "12:00",
		Status:         models.BookingStatusPending,
		ApprovalStatus: models.ApprovalApproved,
		PaymentStatus:  models.PaymentUnpaid,
		Address:        "12 Rue de Marseille",
		Province:       "Tunis",
	}
	_ = bookings.Create(context.Background(), b)
	return b
}
