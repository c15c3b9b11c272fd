package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/appointment"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

// ListAppointments resolves the caller by wallet, as patient or doctor.
type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) ForPatient(ctx context.Context, wallet string) ([]models.Appointment, error) {
	p, err := uc.repo.GetPatientByWallet(ctx, wallet)
	if err != nil {
		return nil, notFoundAs(err, "patient_not_found")
	}
	return uc.repo.ListByPatient(ctx, p.ID)
}

func (uc *ListAppointments) ForDoctor(ctx context.Context, wallet string) ([]models.Appointment, error) {
	d, err := uc.repo.GetDoctorByWallet(ctx, wallet)
	if err != nil {
		return nil, notFoundAs(err, "doctor_not_found")
	}
	return uc.repo.ListByDoctor(ctx, d.ID)
}
