package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"homehelp-server/models"
	"homehelp-server/services"
)

// ExpirationJob cancels stale unclaimed job posts: pending, unassigned
// bookings whose start date has already passed.
type ExpirationJob struct {
	bookings services.BookingStore
	gateway  services.NotificationGateway
	interval time.Duration
	stopChan chan bool

	// runLock keeps sweeps from overlapping; a tick that fires while a
	// sweep is still running is skipped, not queued.
	runLock sync.Mutex
}

// NewExpirationJob creates a new expiration job
func NewExpirationJob(bookings services.BookingStore, gateway services.NotificationGateway, interval time.Duration) *ExpirationJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpirationJob{
		bookings: bookings,
		gateway:  gateway,
		interval: interval,
		stopChan: make(chan bool),
	}
}

// Start begins the expiration job
func (j *ExpirationJob) Start() {
	go j.run()
	log.Println("🚀 Expiration job started")
}

// Stop stops the expiration job
func (j *ExpirationJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Expiration job stopped")
}

// run executes the expiration job
func (j *ExpirationJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := j.SweepExpired(context.Background(), time.Now()); err != nil {
				log.Printf("❌ Expiration sweep failed: %v", err)
			}
		case <-j.stopChan:
			return
		}
	}
}

// SweepExpired cancels every pending, unassigned booking whose start
// date has passed now, and returns how many it cancelled. Idempotent:
// each cancellation is a guarded conditional write, so a second sweep
// with the same now (or a sweep racing a late acceptance) cancels
// nothing extra.
func (j *ExpirationJob) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	if !j.runLock.TryLock() {
		log.Println("⏭️ Expiration sweep already running, skipping")
		return 0, nil
	}
	defer j.runLock.Unlock()

	expired, err := j.bookings.ExpiredUnclaimed(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}
	log.Printf("⏰ Found %d expired unclaimed bookings", len(expired))

	cancelled := 0
	for i := range expired {
		booking := &expired[i]
		ok, err := j.bookings.CancelIfUnclaimed(ctx, booking.ID)
		if err != nil {
			log.Printf("❌ Failed to expire booking %d: %v", booking.ID, err)
			continue
		}
		if !ok {
			// Claimed or already cancelled since the scan; leave it be.
			continue
		}
		cancelled++
		log.Printf("✅ Booking %d expired and cancelled", booking.ID)

		if j.gateway != nil {
			if err := j.gateway.Notify(ctx, booking.CustomerID, models.EventBookingExpired, booking.ID); err != nil {
				log.Printf("⚠️ Failed to deliver expiration notice for booking %d: %v", booking.ID, err)
			}
		}
	}
	return cancelled, nil
}
