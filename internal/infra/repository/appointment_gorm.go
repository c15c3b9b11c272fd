package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/appointment"
	"github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*AppointmentGormRepository)(nil)

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Participants
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPatient(
	ctx context.Context,
	id string,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *AppointmentGormRepository) GetDoctor(
	ctx context.Context,
	id string,
) (*models.Doctor, error) {

	var d models.Doctor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &d, nil
}

func (r *AppointmentGormRepository) GetPatientByWallet(
	ctx context.Context,
	wallet string,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).
		Where("wallet_address = ?", wallet).
		First(&p).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *AppointmentGormRepository) GetDoctorByWallet(
	ctx context.Context,
	wallet string,
) (*models.Doctor, error) {

	var d models.Doctor
	if err := r.db.WithContext(ctx).
		Where("wallet_address = ?", wallet).
		First(&d).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &d, nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) ExistsFor(
	ctx context.Context,
	patientID string,
	doctorID string,
	date time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("patient_id = ? AND doctor_id = ? AND date = ?", patientID, doctorID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AppointmentGormRepository) Get(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Ticket").
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListByPatient(
	ctx context.Context,
	patientID string,
) ([]models.Appointment, error) {

	var out []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Ticket").
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

func (r *AppointmentGormRepository) ListByDoctor(
	ctx context.Context,
	doctorID string,
) ([]models.Appointment, error) {

	var out []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Ticket").
		Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness("appointment_exists")
	}
	return err
}

func (r *AppointmentGormRepository) CreateTicket(
	ctx context.Context,
	t *models.Ticket,
) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
	if httperr.IsUniqueViolation(err) {
		return ticket.ErrConflict
	}
	return err
}

func (r *AppointmentGormRepository) SaveAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", ap.ID).
		Updates(map[string]any{
			"status":    ap.Status,
			"is_active": ap.IsActive,
		}).Error
}

func (r *AppointmentGormRepository) SetTicketStatus(
	ctx context.Context,
	ticketID string,
	from, to ticket.Status,
) error {
	return setTicketStatus(r.db.WithContext(ctx), ticketID, from, to)
}
