package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
)

const oneDay = 24 * time.Hour

func TestNextSequence_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	repo := NewTicketGormRepository(newTestDB(t))

	const n = 25
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int64]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.NextSequence(context.Background(), "20250310")
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			seen[got] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("expected %d distinct numbers, got %d", n, len(seen))
	}
	for i := int64(1); i <= n; i++ {
		if !seen[i] {
			t.Fatalf("sequence has a gap at %d: %v", i, seen)
		}
	}
}

func TestNextSequence_ResetsPerDay(t *testing.T) {
	repo := NewTicketGormRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.NextSequence(ctx, "20250310"); err != nil {
			t.Fatal(err)
		}
	}
	got, err := repo.NextSequence(ctx, "20250311")
	if err != nil || got != 1 {
		t.Fatalf("expected 1 on a new day, got %d %v", got, err)
	}
}

func TestCancelExpired_GatesAndIdempotence(t *testing.T) {
	f := newFixture(t)
	repo := NewTicketGormRepository(f.db)
	ctx := context.Background()

	old := f.appointment(now.Add(-4 * oneDay))
	expired := f.ticket(old, "TCK-A", "active", domain.ExpiryFor(old.Date))

	olderStill := f.appointment(now.Add(-10 * oneDay))
	alsoExpired := f.ticket(olderStill, "TCK-B", "scheduled", domain.ExpiryFor(olderStill.Date))

	recent := f.appointment(now.Add(-1 * oneDay))
	inWindow := f.ticket(recent, "TCK-C", "active", domain.ExpiryFor(recent.Date))

	// expiry already behind now but the appointment has not happened
	upcoming := f.appointment(now.Add(1 * oneDay))
	notYet := f.ticket(upcoming, "TCK-D", "active", now.Add(-time.Hour))

	stale := f.appointment(now.Add(-9 * oneDay))
	pending := f.ticket(stale, "TCK-E", "pending", domain.ExpiryFor(stale.Date))

	n, err := repo.CancelExpired(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 cancelled, got %d", n)
	}
	if f.status(expired.ID) != "cancelled" || f.status(alsoExpired.ID) != "cancelled" {
		t.Fatal("expired tickets were not cancelled")
	}
	if f.status(inWindow.ID) != "active" || f.status(notYet.ID) != "active" {
		t.Fatal("tickets inside their window must stay active")
	}
	if f.status(pending.ID) != "pending" {
		t.Fatal("only active and scheduled tickets are swept")
	}

	again, err := repo.CancelExpired(ctx, now)
	if err != nil || again != 0 {
		t.Fatalf("second sweep should affect 0, got %d %v", again, err)
	}
}

func TestSetStatus_CompareAndSet(t *testing.T) {
	f := newFixture(t)
	repo := NewTicketGormRepository(f.db)
	ctx := context.Background()

	ap := f.appointment(now)
	tk := f.ticket(ap, "TCK-A", "active", domain.ExpiryFor(ap.Date))

	if err := repo.SetStatus(ctx, tk.ID, domain.StatusActive, domain.StatusCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a writer that still believes the ticket is active loses
	tk.Status = string(domain.StatusUsed)
	if err := repo.Update(ctx, tk, domain.StatusActive); !errors.Is(err, domain.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if err := repo.SetStatus(ctx, tk.ID, domain.StatusActive, domain.StatusUsed); !errors.Is(err, domain.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if got := f.status(tk.ID); got != "cancelled" {
		t.Fatalf("cancelled ticket was overwritten with %s", got)
	}

	notes := "rebooked"
	tk.Status = string(domain.StatusCancelled)
	tk.Notes = &notes
	if err := repo.Update(ctx, tk, domain.StatusCancelled); err != nil {
		t.Fatalf("notes update on current status failed: %v", err)
	}
}

func TestGetByNumber_LoadsAppointmentAndFilters(t *testing.T) {
	f := newFixture(t)
	repo := NewTicketGormRepository(f.db)
	ctx := context.Background()

	ap := f.appointment(now)
	f.ticket(ap, "TCK-20250310-001", "active", domain.ExpiryFor(ap.Date))

	got, err := repo.GetByNumber(ctx, "TCK-20250310-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Appointment == nil || got.Appointment.Patient == nil || got.Appointment.Doctor == nil {
		t.Fatal("expected appointment with patient and doctor")
	}

	if _, err := repo.GetByNumber(ctx, "TCK-nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, err := repo.List(ctx, domain.ListFilter{PatientID: f.patient.ID, Status: domain.StatusActive})
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 ticket, got %d %v", len(list), err)
	}
	list, err = repo.List(ctx, domain.ListFilter{DoctorID: "someone-else"})
	if err != nil || len(list) != 0 {
		t.Fatalf("expected no tickets, got %d %v", len(list), err)
	}
}
