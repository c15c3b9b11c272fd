package ticket

import (
	"context"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

type ListInput struct {
	Status    string
	PatientID string
	DoctorID  string
}

type ListTickets struct {
	repo domain.Repository
}

func NewListTickets(repo domain.Repository) *ListTickets {
	return &ListTickets{repo: repo}
}

func (uc *ListTickets) Execute(ctx context.Context, in ListInput) ([]models.Ticket, error) {
	f := domain.ListFilter{
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
	}
	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	return uc.repo.List(ctx, f)
}
