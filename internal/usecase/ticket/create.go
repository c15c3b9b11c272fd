package ticket

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/careline-api/internal/audit"
	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/models"
	"github.com/BruksfildServices01/careline-api/internal/ticketcode"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	AppointmentID string
	Notes         *string
}

// ======================================================
// USE CASE
// ======================================================

type CreateTicket struct {
	repo   domain.Repository
	issuer *ticketcode.Issuer
	audit  *audit.Dispatcher
}

func NewCreateTicket(
	repo domain.Repository,
	issuer *ticketcode.Issuer,
	audit *audit.Dispatcher,
) *CreateTicket {
	return &CreateTicket{
		repo:   repo,
		issuer: issuer,
		audit:  audit,
	}
}

// Execute issues the ticket of an appointment. A second ticket for the
// same appointment fails with *domain.ExistsError carrying the first.
func (uc *CreateTicket) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Ticket, error) {

	if in.AppointmentID == "" {
		return nil, httperr.ErrBusiness("appointment_id_required")
	}

	// A malformed id cannot name a row; keep it away from the uuid column.
	if _, err := uuid.Parse(in.AppointmentID); err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return nil, err
	}

	if err := uc.assertNoTicket(ctx, ap.ID); err != nil {
		return nil, err
	}

	issued, err := uc.issuer.Issue(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	t := &models.Ticket{
		TicketNumber:  issued.Number,
		AppointmentID: ap.ID,
		Status:        string(domain.StatusForAppointment(ap.Status)),
		ExpiresAt:     domain.ExpiryFor(ap.Date),
		Notes:         in.Notes,
		QRCode:        issued.QRCode,
	}

	if err := uc.repo.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// lost the race to a concurrent create, or a number clash
			if existsErr := uc.assertNoTicket(ctx, ap.ID); existsErr != nil {
				return nil, existsErr
			}
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "ticket_created",
		Entity:   "ticket",
		EntityID: t.ID,
		Metadata: map[string]any{
			"ticket_number":   t.TicketNumber,
			"appointment_id":  t.AppointmentID,
			"expires_in_days": domain.ValidityDays,
		},
	})

	return t, nil
}

func (uc *CreateTicket) assertNoTicket(ctx context.Context, appointmentID string) error {
	existing, err := uc.repo.GetByAppointment(ctx, appointmentID)
	switch {
	case err == nil:
		return &domain.ExistsError{Ticket: existing}
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}
