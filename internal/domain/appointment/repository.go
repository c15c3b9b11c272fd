package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	// -------- Participants --------
	GetPatient(ctx context.Context, id string) (*models.Patient, error)
	GetDoctor(ctx context.Context, id string) (*models.Doctor, error)
	GetPatientByWallet(ctx context.Context, wallet string) (*models.Patient, error)
	GetDoctorByWallet(ctx context.Context, wallet string) (*models.Doctor, error)

	// -------- Appointment (read) --------
	ExistsFor(ctx context.Context, patientID, doctorID string, date time.Time) (bool, error)
	Get(ctx context.Context, id string) (*models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)

	// -------- Appointment (write) --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	CreateTicket(ctx context.Context, t *models.Ticket) error
	SaveAppointment(ctx context.Context, ap *models.Appointment) error
	// SetTicketStatus is a compare-and-set on the ticket status; see
	// ticket.ErrStale.
	SetTicketStatus(ctx context.Context, ticketID string, from, to ticket.Status) error

	// WithinTx runs fn against a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(Repository) error) error
}
