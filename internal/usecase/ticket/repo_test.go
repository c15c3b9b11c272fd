package ticket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

// memoryRepo follows the gorm repository: unique ticket per appointment,
// unique numbers, per-day sequence.
type memoryRepo struct {
	mu           sync.Mutex
	appointments map[string]*models.Appointment
	tickets      map[string]*models.Ticket
	sequences    map[string]int64

	// createHook runs before the uniqueness check, to stage races.
	createHook func()
	// writeHook runs before a guarded status write, to stage a
	// concurrent change.
	writeHook func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		appointments: map[string]*models.Appointment{},
		tickets:      map[string]*models.Ticket{},
		sequences:    map[string]int64{},
	}
}

func (r *memoryRepo) addAppointment(status string, date time.Time) *models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap := &models.Appointment{
		ID:        uuid.NewString(),
		PatientID: "patient-1",
		DoctorID:  "doctor-1",
		Date:      date,
		Status:    status,
	}
	r.appointments[ap.ID] = ap
	return ap
}

func (r *memoryRepo) addTicket(ap *models.Appointment, number, status string) *models.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &models.Ticket{
		ID:            uuid.NewString(),
		TicketNumber:  number,
		AppointmentID: ap.ID,
		Status:        status,
		ExpiresAt:     domain.ExpiryFor(ap.Date),
	}
	r.tickets[t.ID] = t
	return t
}

func (r *memoryRepo) status(ticketID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tickets[ticketID].Status
}

func (r *memoryRepo) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ap
	return &cp, nil
}

func (r *memoryRepo) withAppointment(t *models.Ticket) *models.Ticket {
	cp := *t
	if ap, ok := r.appointments[t.AppointmentID]; ok {
		apCopy := *ap
		cp.Appointment = &apCopy
	}
	return &cp
}

func (r *memoryRepo) GetByNumber(_ context.Context, number string) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.TicketNumber == number {
			return r.withAppointment(t), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetByAppointment(_ context.Context, appointmentID string) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.AppointmentID == appointmentID {
			return r.withAppointment(t), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) List(_ context.Context, f domain.ListFilter) ([]models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Ticket
	for _, t := range r.tickets {
		ap := r.appointments[t.AppointmentID]
		if f.Status != "" && t.Status != string(f.Status) {
			continue
		}
		if f.PatientID != "" && ap.PatientID != f.PatientID {
			continue
		}
		if f.DoctorID != "" && ap.DoctorID != f.DoctorID {
			continue
		}
		out = append(out, *r.withAppointment(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketNumber > out[j].TicketNumber })
	return out, nil
}

func (r *memoryRepo) NextSequence(_ context.Context, day string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequences[day]++
	return r.sequences[day], nil
}

func (r *memoryRepo) Create(_ context.Context, t *models.Ticket) error {
	if r.createHook != nil {
		r.createHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tickets {
		if existing.AppointmentID == t.AppointmentID || existing.TicketNumber == t.TicketNumber {
			return domain.ErrConflict
		}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	cp := *t
	r.tickets[t.ID] = &cp
	return nil
}

func (r *memoryRepo) Update(_ context.Context, t *models.Ticket, from domain.Status) error {
	if r.writeHook != nil {
		r.writeHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[t.ID]
	if !ok || stored.Status != string(from) {
		return domain.ErrStale
	}
	stored.Status = t.Status
	stored.Notes = t.Notes
	return nil
}

func (r *memoryRepo) SetStatus(_ context.Context, ticketID string, from, to domain.Status) error {
	if r.writeHook != nil {
		r.writeHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticketID]
	if !ok || stored.Status != string(from) {
		return domain.ErrStale
	}
	stored.Status = string(to)
	return nil
}

func (r *memoryRepo) forceStatus(ticketID, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticketID].Status = status
}

func (r *memoryRepo) CancelExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tickets {
		ap := r.appointments[t.AppointmentID]
		if !domain.Status(t.Status).Usable() {
			continue
		}
		if t.ExpiresAt.Before(now) && ap.Date.Before(now) {
			t.Status = string(domain.StatusCancelled)
			n++
		}
	}
	return n, nil
}

type stubQR struct{}

func (stubQR) Generate(_ context.Context, number, _ string) (string, error) {
	return "https://qr.test/" + number + ".png", nil
}
