package appointment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/careline-api/internal/audit"
	domain "github.com/BruksfildServices01/careline-api/internal/domain/appointment"
	"github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

type UpdateAppointmentStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   zerolog.Logger
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{repo: repo, audit: audit, log: log}
}

// Execute changes the appointment status and cascades it onto the
// ticket in the same transaction. A ticket that may not take the new
// status keeps its own.
func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	appointmentID string,
	status string,
) (*models.Appointment, error) {

	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if !isUUID(appointmentID) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	var (
		ap   *models.Appointment
		from string
	)
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.Get(ctx, appointmentID)
		if err != nil {
			return notFoundAs(err, "appointment_not_found")
		}

		from = ap.Status
		if err := domain.ChangeStatus(ap, next); err != nil {
			return err
		}
		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}

		if ap.Ticket == nil {
			return nil
		}
		current := ticket.Status(ap.Ticket.Status)
		cascaded := ticket.StatusForAppointment(ap.Status)
		if current == cascaded {
			return nil
		}
		if err := ticket.CanTransition(current, cascaded); err != nil {
			uc.log.Warn().
				Str("ticket", ap.Ticket.TicketNumber).
				Str("ticket_status", string(current)).
				Str("appointment_status", ap.Status).
				Msg("ticket cannot follow appointment status, skipping cascade")
			return nil
		}
		if err := tx.SetTicketStatus(ctx, ap.Ticket.ID, current, cascaded); err != nil {
			return ticketConflict(err)
		}
		ap.Ticket.Status = string(cascaded)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"from": from, "to": ap.Status},
	})

	return ap, nil
}
