package ticket

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/careline-api/internal/audit"
	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

type UpdateInput struct {
	Status *string
	Notes  *string
}

type UpdateTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateTicket(repo domain.Repository, audit *audit.Dispatcher) *UpdateTicket {
	return &UpdateTicket{repo: repo, audit: audit}
}

func (uc *UpdateTicket) Execute(
	ctx context.Context,
	number string,
	in UpdateInput,
) (*models.Ticket, error) {

	if in.Status == nil && in.Notes == nil {
		return nil, httperr.ErrBusiness("empty_update")
	}

	t, err := uc.repo.GetByNumber(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("ticket_not_found")
	}
	if err != nil {
		return nil, err
	}

	from := t.Status
	if in.Status != nil {
		next, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if err := domain.CanTransition(domain.Status(t.Status), next); err != nil {
			return nil, err
		}
		t.Status = string(next)
	}
	if in.Notes != nil {
		t.Notes = in.Notes
	}

	if err := uc.repo.Update(ctx, t, domain.Status(from)); err != nil {
		if errors.Is(err, domain.ErrStale) {
			return nil, httperr.ErrBusiness("ticket_conflict")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "ticket_updated",
		Entity:   "ticket",
		EntityID: t.ID,
		Metadata: map[string]string{"from": from, "to": t.Status},
	})

	return t, nil
}
