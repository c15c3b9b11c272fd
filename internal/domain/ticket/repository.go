package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/careline-api/internal/models"
)

var (
	ErrNotFound = errors.New("ticket not found")
	ErrConflict = errors.New("ticket already exists")
	// ErrStale means the row no longer holds the status the write expected.
	ErrStale = errors.New("ticket status changed concurrently")
)

// ExistsError reports the ticket already issued for an appointment.
type ExistsError struct {
	Ticket *models.Ticket
}

func (e *ExistsError) Error() string {
	return "ticket already exists for appointment " + e.Ticket.AppointmentID
}

type ListFilter struct {
	Status    Status
	PatientID string
	DoctorID  string
}

type Repository interface {
	// -------- Appointment --------
	GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)

	// -------- Ticket (read) --------
	GetByNumber(ctx context.Context, number string) (*models.Ticket, error)
	GetByAppointment(ctx context.Context, appointmentID string) (*models.Ticket, error)
	List(ctx context.Context, f ListFilter) ([]models.Ticket, error)

	// -------- Ticket (write) --------
	// NextSequence atomically reserves the next number for a day key.
	NextSequence(ctx context.Context, day string) (int64, error)
	Create(ctx context.Context, t *models.Ticket) error
	// Update and SetStatus only apply while the stored status still
	// equals from, and return ErrStale otherwise.
	Update(ctx context.Context, t *models.Ticket, from Status) error
	SetStatus(ctx context.Context, ticketID string, from, to Status) error

	// CancelExpired cancels every active or scheduled ticket whose
	// appointment and expiry are both before now.
	CancelExpired(ctx context.Context, now time.Time) (int64, error)
}
