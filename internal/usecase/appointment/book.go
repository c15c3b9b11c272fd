package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/careline-api/internal/audit"
	domain "github.com/BruksfildServices01/careline-api/internal/domain/appointment"
	"github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/models"
	"github.com/BruksfildServices01/careline-api/internal/ticketcode"
)

type BookResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Ticket      *models.Ticket      `json:"ticket"`
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo   domain.Repository
	issuer *ticketcode.Issuer
	audit  *audit.Dispatcher
}

func NewBookAppointment(
	repo domain.Repository,
	issuer *ticketcode.Issuer,
	audit *audit.Dispatcher,
) *BookAppointment {
	return &BookAppointment{
		repo:   repo,
		issuer: issuer,
		audit:  audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in domain.BookingInput,
) (*BookResult, error) {

	if err := in.Validate(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Participants
	// --------------------------------------------------
	if !isUUID(in.PatientID) {
		return nil, httperr.ErrBusiness("patient_not_found")
	}
	if !isUUID(in.DoctorID) {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}
	if _, err := uc.repo.GetPatient(ctx, in.PatientID); err != nil {
		return nil, notFoundAs(err, "patient_not_found")
	}
	if _, err := uc.repo.GetDoctor(ctx, in.DoctorID); err != nil {
		return nil, notFoundAs(err, "doctor_not_found")
	}

	// --------------------------------------------------
	// Slot
	// --------------------------------------------------
	exists, err := uc.repo.ExistsFor(ctx, in.PatientID, in.DoctorID, in.Date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, httperr.ErrBusiness("appointment_exists")
	}

	// --------------------------------------------------
	// Ticket number + QR, outside the transaction
	// --------------------------------------------------
	ap := domain.NewAppointment(in)
	ap.ID = uuid.NewString()

	issued, err := uc.issuer.Issue(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	t := &models.Ticket{
		TicketNumber:  issued.Number,
		AppointmentID: ap.ID,
		Status:        string(ticket.StatusPending),
		ExpiresAt:     ticket.ExpiryFor(ap.Date),
		Notes:         in.TicketNotes,
		QRCode:        issued.QRCode,
	}

	// --------------------------------------------------
	// Appointment + ticket, atomically
	// --------------------------------------------------
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		return tx.CreateTicket(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.PatientID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{
			"doctor_id":     in.DoctorID,
			"ticket_number": t.TicketNumber,
		},
	})

	return &BookResult{Appointment: ap, Ticket: t}, nil
}

// isUUID gates ids before they reach uuid columns.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func ticketConflict(err error) error {
	if errors.Is(err, ticket.ErrStale) {
		return httperr.ErrBusiness("ticket_conflict")
	}
	return err
}

func notFoundAs(err error, code string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}
