package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// sweepStore implements just enough of services.BookingStore for the
// sweeper: the scan and the guarded cancellation, both under one mutex.
type sweepStore struct {
	mu   sync.Mutex
	rows map[uint]*models.Booking

	// gate, when set, blocks CancelIfUnclaimed until released. Used to
	// hold a sweep open while a second one is attempted.
	gate chan struct{}
}

func newSweepStore(rows ...models.Booking) *sweepStore {
	s := &sweepStore{rows: make(map[uint]*models.Booking)}
	for i := range rows {
		cp := rows[i]
		s.rows[cp.ID] = &cp
	}
	return s
}

func (s *sweepStore) ExpiredUnclaimed(ctx context.Context, now time.Time) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, row := range s.rows {
		if row.Status == models.BookingStatusPending && row.HelperID == nil && row.StartDate.Before(now) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *sweepStore) CancelIfUnclaimed(ctx context.Context, bookingID uint) (bool, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[bookingID]
	if !ok {
		return false, apperror.NotFound("booking %d not found", bookingID)
	}
	if row.HelperID != nil || row.Status != models.BookingStatusPending {
		return false, nil
	}
	row.Status = models.BookingStatusCancelled
	return true, nil
}

func (s *sweepStore) claim(bookingID, helperID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[bookingID]
	if !ok || row.HelperID != nil || row.Status != models.BookingStatusPending {
		return false
	}
	id := helperID
	row.HelperID = &id
	return true
}

func (s *sweepStore) status(bookingID uint) models.BookingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[bookingID].Status
}

// Unused BookingStore methods.
func (s *sweepStore) Create(ctx context.Context, b *models.Booking) error { return nil }
func (s *sweepStore) ByID(ctx context.Context, id uint) (*models.Booking, error) {
	return nil, apperror.NotFound("booking %d not found", id)
}
func (s *sweepStore) Save(ctx context.Context, b *models.Booking) error { return nil }
func (s *sweepStore) SaveWithToken(ctx context.Context, b *models.Booking, token time.Time) error {
	return nil
}
func (s *sweepStore) ClaimJob(ctx context.Context, bookingID, helperID uint) (bool, error) {
	return s.claim(bookingID, helperID), nil
}
func (s *sweepStore) ReleaseClaim(ctx context.Context, bookingID, helperID uint) error { return nil }
func (s *sweepStore) OccupyingByHelper(ctx context.Context, helperID uint) ([]models.Booking, error) {
	return nil, nil
}
func (s *sweepStore) OpenByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	return nil, nil
}
func (s *sweepStore) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int64, error) {
	return nil, 0, nil
}
func (s *sweepStore) CreateForGuest(ctx context.Context, user *models.User, b *models.Booking) (bool, error) {
	return false, nil
}

type countingGateway struct {
	mu     sync.Mutex
	events []models.BookingEvent
}

func (g *countingGateway) Notify(ctx context.Context, userID uint, event models.BookingEvent, bookingID uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, event)
	return nil
}

func (g *countingGateway) count(event models.BookingEvent) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, e := range g.events {
		if e == event {
			n++
		}
	}
	return n
}

func pendingBooking(id uint, startDay int) models.Booking {
	return models.Booking{
		ID:             id,
		Reference:      "ref",
		CustomerID:     10,
		ServiceID:      1,
		StartDate:      time.Date(2026, time.September, startDay, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, time.September, startDay+1, 0, 0, 0, 0, time.UTC),
		ShiftStart:     "08:00",
		ShiftEnd:       "12:00",
		Status:         models.BookingStatusPending,
		ApprovalStatus: models.ApprovalApproved,
	}
}

func TestSweepExpiredCancelsStaleJobPosts(t *testing.T) {
	stale := pendingBooking(1, 1)
	fresh := pendingBooking(2, 20)
	claimed := pendingBooking(3, 1)
	helperID := uint(5)
	claimed.HelperID = &helperID

	store := newSweepStore(stale, fresh, claimed)
	gateway := &countingGateway{}
	job := NewExpirationJob(store, gateway, time.Minute)

	now := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	cancelled, err := job.SweepExpired(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if cancelled != 1 {
		t.Fatalf("got %d cancellations, want 1", cancelled)
	}
	if store.status(1) != models.BookingStatusCancelled {
		t.Error("stale unclaimed post not cancelled")
	}
	if store.status(2) != models.BookingStatusPending {
		t.Error("future post must survive the sweep")
	}
	if store.status(3) != models.BookingStatusPending {
		t.Error("claimed post must survive the sweep")
	}
	if gateway.count(models.EventBookingExpired) != 1 {
		t.Errorf("got %d expiration events, want 1", gateway.count(models.EventBookingExpired))
	}
}

func TestSweepExpiredIsIdempotent(t *testing.T) {
	store := newSweepStore(pendingBooking(1, 1))
	gateway := &countingGateway{}
	job := NewExpirationJob(store, gateway, time.Minute)

	now := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	if _, err := job.SweepExpired(context.Background(), now); err != nil {
		t.Fatal(err)
	}
	again, err := job.SweepExpired(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if again != 0 {
		t.Errorf("second sweep cancelled %d bookings, want 0", again)
	}
	if gateway.count(models.EventBookingExpired) != 1 {
		t.Errorf("got %d expiration events, want 1", gateway.count(models.EventBookingExpired))
	}
}

func TestSweepSkipsWhileAnotherRuns(t *testing.T) {
	store := newSweepStore(pendingBooking(1, 1))
	store.gate = make(chan struct{})
	job := NewExpirationJob(store, &countingGateway{}, time.Minute)

	now := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := job.SweepExpired(context.Background(), now); err != nil {
			t.Errorf("blocked sweep failed: %v", err)
		}
	}()

	// Wait for the first sweep to reach the gated cancellation, then try
	// a second sweep: it must skip instead of queueing.
	time.Sleep(20 * time.Millisecond)
	n, err := job.SweepExpired(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("concurrent sweep cancelled %d bookings, want 0 (skip)", n)
	}

	close(store.gate)
	<-done
	if store.status(1) != models.BookingStatusCancelled {
		t.Error("first sweep did not complete its cancellation")
	}
}

func TestSweepRaceWithLateAcceptance(t *testing.T) {
	store := newSweepStore(pendingBooking(1, 1))
	job := NewExpirationJob(store, &countingGateway{}, time.Minute)

	now := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	var swept int
	var claimed bool
	wg.Add(2)
	go func() {
		defer wg.Done()
		swept, _ = job.SweepExpired(context.Background(), now)
	}()
	go func() {
		defer wg.Done()
		claimed = store.claim(1, 5)
	}()
	wg.Wait()

	if swept == 1 && claimed {
		t.Fatal("the sweep and the acceptance both won the race")
	}
	if swept == 0 && !claimed {
		t.Fatal("neither the sweep nor the acceptance took effect")
	}
}
