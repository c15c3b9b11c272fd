package ticket

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/models"
	"github.com/BruksfildServices01/careline-api/internal/ticketcode"
)

var fixedNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newCreate(repo *memoryRepo) *CreateTicket {
	return NewCreateTicket(repo, ticketcode.NewIssuer(repo, stubQR{}, clock), nil)
}

func TestCreateTicket_Success(t *testing.T) {
	repo := newMemoryRepo()
	date := fixedNow.Add(48 * time.Hour)
	ap := repo.addAppointment("scheduled", date)
	notes := "bring exams"

	got, err := newCreate(repo).Execute(context.Background(), CreateInput{AppointmentID: ap.ID, Notes: &notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.TicketNumber != "TCK-20250310-001" {
		t.Fatalf("unexpected number %s", got.TicketNumber)
	}
	if got.Status != "scheduled" {
		t.Fatalf("expected status inherited from appointment, got %s", got.Status)
	}
	if !got.ExpiresAt.Equal(date.AddDate(0, 0, 3)) {
		t.Fatalf("expected expiry date+3d, got %s", got.ExpiresAt)
	}
	if got.QRCode != "https://qr.test/TCK-20250310-001.png" {
		t.Fatalf("unexpected qr %s", got.QRCode)
	}
	if got.Notes == nil || *got.Notes != notes {
		t.Fatal("expected notes kept")
	}
}

func TestCreateTicket_CompletedAppointmentYieldsUsed(t *testing.T) {
	repo := newMemoryRepo()
	ap := repo.addAppointment("completed", fixedNow)

	got, err := newCreate(repo).Execute(context.Background(), CreateInput{AppointmentID: ap.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != "used" {
		t.Fatalf("expected used, got %s", got.Status)
	}
}

func TestCreateTicket_Validation(t *testing.T) {
	repo := newMemoryRepo()
	uc := newCreate(repo)

	if _, err := uc.Execute(context.Background(), CreateInput{}); !httperr.IsBusiness(err, "appointment_id_required") {
		t.Fatalf("expected appointment_id_required, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), CreateInput{AppointmentID: uuid.NewString()}); !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("expected appointment_not_found, got %v", err)
	}
	// malformed ids never reach the store, even if a row happens to match
	repo.appointments["missing"] = &models.Appointment{ID: "missing", Date: fixedNow.Add(time.Hour), Status: "scheduled"}
	if _, err := uc.Execute(context.Background(), CreateInput{AppointmentID: "missing"}); !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("expected appointment_not_found, got %v", err)
	}
}

func TestCreateTicket_ConflictReturnsExisting(t *testing.T) {
	repo := newMemoryRepo()
	ap := repo.addAppointment("pending", fixedNow)
	uc := newCreate(repo)

	first, err := uc.Execute(context.Background(), CreateInput{AppointmentID: ap.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = uc.Execute(context.Background(), CreateInput{AppointmentID: ap.ID})
	var exists *domain.ExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected ExistsError, got %v", err)
	}
	if exists.Ticket.TicketNumber != first.TicketNumber {
		t.Fatalf("expected existing %s, got %s", first.TicketNumber, exists.Ticket.TicketNumber)
	}
}

func TestCreateTicket_LostRaceMapsToConflict(t *testing.T) {
	repo := newMemoryRepo()
	ap := repo.addAppointment("pending", fixedNow)

	// another request inserts between the pre-check and our insert
	repo.createHook = func() {
		repo.createHook = nil
		repo.addTicket(ap, "TCK-20250310-999", "pending")
	}

	_, err := newCreate(repo).Execute(context.Background(), CreateInput{AppointmentID: ap.ID})
	var exists *domain.ExistsError
	if !errors.As(err, &exists) || exists.Ticket.TicketNumber != "TCK-20250310-999" {
		t.Fatalf("expected conflict with the winner, got %v", err)
	}
}

func TestCreateTicket_ConcurrentCreatesGetDistinctNumbers(t *testing.T) {
	repo := newMemoryRepo()
	uc := newCreate(repo)

	const n = 40
	ids := make([]string, n)
	for i := range ids {
		ids[i] = repo.addAppointment("pending", fixedNow).ID
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[string]bool{}
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			got, err := uc.Execute(context.Background(), CreateInput{AppointmentID: id})
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			numbers[got.TicketNumber] = true
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	if len(numbers) != n {
		t.Fatalf("expected %d distinct numbers, got %d", n, len(numbers))
	}
	if !numbers["TCK-20250310-001"] || !numbers["TCK-20250310-040"] {
		t.Fatal("expected a dense 001..040 range")
	}
}
