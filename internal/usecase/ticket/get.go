package ticket

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

type GetTicket struct {
	repo domain.Repository
}

func NewGetTicket(repo domain.Repository) *GetTicket {
	return &GetTicket{repo: repo}
}

func (uc *GetTicket) Execute(ctx context.Context, number string) (*models.Ticket, error) {
	t, err := uc.repo.GetByNumber(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("ticket_not_found")
	}
	return t, err
}
