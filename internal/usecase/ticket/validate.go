package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/careline-api/internal/audit"
	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

type ValidationResult struct {
	Ticket     *models.Ticket
	Validation domain.Validation
}

type ValidateTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	nowFn func() time.Time
}

func NewValidateTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
	nowFn func() time.Time,
) *ValidateTicket {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &ValidateTicket{repo: repo, audit: audit, nowFn: nowFn}
}

// Execute classifies the ticket now. An expired ticket is cancelled in
// the store before the result is returned.
func (uc *ValidateTicket) Execute(ctx context.Context, number string) (*ValidationResult, error) {
	t, err := uc.repo.GetByNumber(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("ticket_not_found")
	}
	if err != nil {
		return nil, err
	}
	if t.Appointment == nil {
		return nil, fmt.Errorf("ticket %s has no appointment loaded", number)
	}

	v := domain.Evaluate(
		domain.Status(t.Status),
		t.Appointment.Date,
		t.ExpiresAt,
		uc.nowFn(),
	)

	if v.Outcome == domain.OutcomeExpired {
		err := uc.repo.SetStatus(ctx, t.ID, domain.Status(t.Status), domain.StatusCancelled)
		if errors.Is(err, domain.ErrStale) {
			return nil, httperr.ErrBusiness("ticket_conflict")
		}
		if err != nil {
			return nil, err
		}
		t.Status = string(domain.StatusCancelled)

		uc.audit.Dispatch(audit.Event{
			Action:   "ticket_expired",
			Entity:   "ticket",
			EntityID: t.ID,
		})
	}

	return &ValidationResult{Ticket: t, Validation: v}, nil
}
