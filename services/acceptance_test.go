package services

import (
	"context"
	"sync"
	"testing"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

func TestAcceptJobExactlyOneWinner(t *testing.T) {
	bookings := newFakeBookingStore()
	helpers := newFakeHelperStore()
	gateway := &recordingGateway{}

	const n = 20
	for i := uint(1); i <= n; i++ {
		helpers.add(testHelper(i, 100+i))
	}
	job := seedJobPost(bookings, 10)

	svc := newTestBookingService(bookings, helpers, gateway)

	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := uint(1); i <= n; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := svc.AcceptJob(context.Background(), job.ID, userID)
			results <- err
		}(100 + i)
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case apperror.IsConflict(err):
			conflicts++
		default:
			t.Errorf("unexpected error kind: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("got %d winners, want exactly 1", wins)
	}
	if conflicts != n-1 {
		t.Errorf("got %d conflicts, want %d", conflicts, n-1)
	}

	bound, err := bookings.ByID(context.Background(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if bound.HelperID == nil {
		t.Fatal("winner's claim not persisted")
	}
	if bound.Status != models.BookingStatusPending {
		t.Errorf("accepted job should stay pending, got %s", bound.Status)
	}
}

func TestAcceptJobRejectsUnapproved(t *testing.T) {
	bookings := newFakeBookingStore()
	helpers := newFakeHelperStore()
	helpers.add(testHelper(1, 101))

	job := seedJobPost(bookings, 10)
	job.ApprovalStatus = models.ApprovalPending
	if err := bookings.Save(context.Background(), job); err != nil {
		t.Fatal(err)
	}

	svc := newTestBookingService(bookings, helpers, &recordingGateway{})
	if _, err := svc.AcceptJob(context.Background(), job.ID, 101); !apperror.IsState(err) {
		t.Errorf("accepting an unapproved job should be a state error, got %v", err)
	}
}

func TestAcceptJobRejectsWrongService(t *testing.T) {
	bookings := newFakeBookingStore()
	helpers := newFakeHelperStore()
	plumber := testHelper(1, 101)
	plumber.ServiceID = 99
	helpers.add(plumber)

	job := seedJobPost(bookings, 10)
	svc := newTestBookingService(bookings, helpers, &recordingGateway{})

	_, err := svc.AcceptJob(context.Background(), job.ID, 101)
	if err == nil || apperror.StatusOf(err) != 400 {
		t.Errorf("capability mismatch should be a validation error, got %v", err)
	}
}

func TestAcceptJobRejectsInactiveHelper(t *testing.T) {
	bookings := newFakeBookingStore()
	helpers := newFakeHelperStore()
	inactive := testHelper(1, 101)
	inactive.IsActive = false
	helpers.add(inactive)

	job := seedJobPost(bookings, 10)
	svc := newTestBookingService(bookings, helpers, &recordingGateway{})

	if _, err := svc.AcceptJob(context.Background(), job.ID, 101); !apperror.IsState(err) {
		t.Errorf("inactive helper should get a state error, got %v", err)
	}
}

func TestAcceptJobReleasesClaimOnScheduleConflict(t *testing.T) {
	bookings := newFakeBookingStore()
	helpers := newFakeHelperStore()
	helpers.add(testHelper(1, 101))
	gateway := &recordingGateway{}
	svc := newTestBookingService(bookings, helpers, gateway)

	// The helper already holds an engagement over the same window.
	held := seedJobPost(bookings, 11)
	helperID := uint(1)
	held.HelperID = &helperID
	if err := bookings.Save(context.Background(), held); err != nil {
		t.Fatal(err)
	}

	job := seedJobPost(bookings, 10)
	_, err := svc.AcceptJob(context.Background(), job.ID, 101)
	if !apperror.IsConflict(err) {
		t.Fatalf("overlapping acceptance should conflict, got %v", err)
	}

	// The claim must be rolled back so another helper can take the job.
	after, err := bookings.ByID(context.Background(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.HelperID != nil {
		t.Error("failed claim left the helper bound")
	}
	if gateway.count(models.EventJobAccepted) != 0 {
		t.Error("no acceptance event should fire for a rolled-back claim")
	}
}

func TestAssignHelperSharesClaimGuarantees(t *testing.T) {
	bookings := newFakeBookingStore()
	helpers := newFakeHelperStore()
	helpers.add(testHelper(1, 101))
	helpers.add(testHelper(2, 102))
	gateway := &recordingGateway{}
	svc := newTestBookingService(bookings, helpers, gateway)

	job := seedJobPost(bookings, 10)
	if _, err := svc.AssignHelper(context.Background(), job.ID, 1); err != nil {
		t.Fatalf("first assignment failed: %v", err)
	}
	if _, err := svc.AssignHelper(context.Background(), job.ID, 2); !apperror.IsConflict(err) {
		t.Errorf("second assignment should conflict, got %v", err)
	}
	if gateway.count(models.EventHelperAssigned) != 2 {
		// One event each to customer and helper for the single successful bind.
		t.Errorf("got %d helper_assigned events, want 2", gateway.count(models.EventHelperAssigned))
	}
}

func TestAcceptJobRaceWithSweeper(t *testing.T) {
	bookings := newFakeBookingStore()
	helpers := newFakeHelperStore()
	helpers.add(testHelper(1, 101))
	svc := newTestBookingService(bookings, helpers, &recordingGateway{})

	job := seedJobPost(bookings, 10)

	// Sweep-style cancellation and acceptance race on the same guarded
	// preconditions; at most one may take effect.
	var wg sync.WaitGroup
	var acceptErr error
	var swept bool
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = svc.AcceptJob(context.Background(), job.ID, 101)
	}()
	go func() {
		defer wg.Done()
		swept, _ = bookings.CancelIfUnclaimed(context.Background(), job.ID)
	}()
	wg.Wait()

	after, err := bookings.ByID(context.Background(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	switch {
	case swept && acceptErr == nil:
		t.Fatal("both the sweep and the acceptance claimed the booking")
	case swept:
		if after.Status != models.BookingStatusCancelled || after.HelperID != nil {
			t.Errorf("swept booking in bad state: status=%s helper=%v", after.Status, after.HelperID)
		}
	case acceptErr == nil:
		if after.HelperID == nil || after.Status != models.BookingStatusPending {
			t.Errorf("accepted booking in bad state: status=%s helper=%v", after.Status, after.HelperID)
		}
	default:
		t.Fatalf("neither side won: acceptErr=%v", acceptErr)
	}
}
