package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

type TicketGormRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*TicketGormRepository)(nil)

func NewTicketGormRepository(db *gorm.DB) *TicketGormRepository {
	return &TicketGormRepository{db: db}
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *TicketGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", appointmentID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &ap, nil
}

// --------------------------------------------------
// Ticket (read)
// --------------------------------------------------

func (r *TicketGormRepository) GetByNumber(
	ctx context.Context,
	number string,
) (*models.Ticket, error) {

	var t models.Ticket
	if err := r.db.WithContext(ctx).
		Preload("Appointment.Patient").
		Preload("Appointment.Doctor").
		Where("ticket_number = ?", number).
		First(&t).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &t, nil
}

func (r *TicketGormRepository) GetByAppointment(
	ctx context.Context,
	appointmentID string,
) (*models.Ticket, error) {

	var t models.Ticket
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&t).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &t, nil
}

func (r *TicketGormRepository) List(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Ticket, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Preload("Appointment.Patient").
		Preload("Appointment.Doctor")

	if f.Status != "" {
		q = q.Where("tickets.status = ?", string(f.Status))
	}
	if f.PatientID != "" || f.DoctorID != "" {
		q = q.Joins("JOIN appointments ON appointments.id = tickets.appointment_id")
		if f.PatientID != "" {
			q = q.Where("appointments.patient_id = ?", f.PatientID)
		}
		if f.DoctorID != "" {
			q = q.Where("appointments.doctor_id = ?", f.DoctorID)
		}
	}

	var out []models.Ticket
	if err := q.Order("tickets.created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Ticket (write)
// --------------------------------------------------

// NextSequence reserves and returns the next number for day. The upsert
// serializes on the day row, so concurrent callers never see the same
// value.
func (r *TicketGormRepository) NextSequence(
	ctx context.Context,
	day string,
) (int64, error) {

	var next int64
	err := r.db.WithContext(ctx).Raw(`
        INSERT INTO ticket_sequences (day, last_number)
        VALUES (?, 1)
        ON CONFLICT (day)
        DO UPDATE SET last_number = ticket_sequences.last_number + 1
        RETURNING last_number
    `, day).Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("reserve ticket sequence: %w", err)
	}
	return next, nil
}

func (r *TicketGormRepository) Create(
	ctx context.Context,
	t *models.Ticket,
) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
	if httperr.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

func (r *TicketGormRepository) Update(
	ctx context.Context,
	t *models.Ticket,
	from domain.Status,
) error {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", t.ID, string(from)).
		Updates(map[string]any{
			"status": t.Status,
			"notes":  t.Notes,
		})
	return staleIfNone(res)
}

func (r *TicketGormRepository) SetStatus(
	ctx context.Context,
	ticketID string,
	from, to domain.Status,
) error {
	return setTicketStatus(r.db.WithContext(ctx), ticketID, from, to)
}

func setTicketStatus(db *gorm.DB, ticketID string, from, to domain.Status) error {
	res := db.
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticketID, string(from)).
		Update("status", string(to))
	return staleIfNone(res)
}

// staleIfNone turns a guarded write that matched nothing into ErrStale.
func staleIfNone(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStale
	}
	return nil
}

func (r *TicketGormRepository) CancelExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	db := r.db.WithContext(ctx)
	pastAppointments := db.
		Model(&models.Appointment{}).
		Select("id").
		Where("date < ?", now)

	res := db.
		Model(&models.Ticket{}).
		Where("status IN ?", []string{
			string(domain.StatusActive),
			string(domain.StatusScheduled),
		}).
		Where("expires_at < ?", now).
		Where("appointment_id IN (?)", pastAppointments).
		Update("status", string(domain.StatusCancelled))

	return res.RowsAffected, res.Error
}
