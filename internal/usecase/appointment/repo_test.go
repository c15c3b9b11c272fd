package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/appointment"
	"github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

// memoryRepo stages writes made inside WithinTx and only commits them
// when fn succeeds.
type memoryRepo struct {
	mu           *sync.Mutex
	patients     map[string]*models.Patient
	doctors      map[string]*models.Doctor
	appointments map[string]*models.Appointment
	tickets      map[string]*models.Ticket

	failTicket bool
	inTx       bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		mu:           &sync.Mutex{},
		patients:     map[string]*models.Patient{},
		doctors:      map[string]*models.Doctor{},
		appointments: map[string]*models.Appointment{},
		tickets:      map[string]*models.Ticket{},
	}
}

func (r *memoryRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *memoryRepo) WithinTx(_ context.Context, fn func(domain.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memoryRepo{
		mu:           r.mu,
		patients:     r.patients,
		doctors:      r.doctors,
		appointments: map[string]*models.Appointment{},
		tickets:      map[string]*models.Ticket{},
		failTicket:   r.failTicket,
		inTx:         true,
	}
	for k, v := range r.appointments {
		cp := *v
		tx.appointments[k] = &cp
	}
	for k, v := range r.tickets {
		cp := *v
		tx.tickets[k] = &cp
	}

	if err := fn(tx); err != nil {
		return err
	}
	r.appointments = tx.appointments
	r.tickets = tx.tickets
	return nil
}

func (r *memoryRepo) GetPatient(_ context.Context, id string) (*models.Patient, error) {
	defer r.lock()()
	if p, ok := r.patients[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetDoctor(_ context.Context, id string) (*models.Doctor, error) {
	defer r.lock()()
	if d, ok := r.doctors[id]; ok {
		return d, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetPatientByWallet(_ context.Context, wallet string) (*models.Patient, error) {
	defer r.lock()()
	for _, p := range r.patients {
		if p.WalletAddress == wallet {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetDoctorByWallet(_ context.Context, wallet string) (*models.Doctor, error) {
	defer r.lock()()
	for _, d := range r.doctors {
		if d.WalletAddress == wallet {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) ExistsFor(_ context.Context, patientID, doctorID string, date time.Time) (bool, error) {
	defer r.lock()()
	for _, ap := range r.appointments {
		if ap.PatientID == patientID && ap.DoctorID == doctorID && ap.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (*models.Appointment, error) {
	defer r.lock()()
	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ap
	for _, t := range r.tickets {
		if t.AppointmentID == id {
			tc := *t
			cp.Ticket = &tc
		}
	}
	return &cp, nil
}

func (r *memoryRepo) list(keep func(*models.Appointment) bool) []models.Appointment {
	defer r.lock()()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if keep(ap) {
			out = append(out, *ap)
		}
	}
	return out
}

func (r *memoryRepo) ListByPatient(_ context.Context, patientID string) ([]models.Appointment, error) {
	return r.list(func(ap *models.Appointment) bool { return ap.PatientID == patientID }), nil
}

func (r *memoryRepo) ListByDoctor(_ context.Context, doctorID string) ([]models.Appointment, error) {
	return r.list(func(ap *models.Appointment) bool { return ap.DoctorID == doctorID }), nil
}

func (r *memoryRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	defer r.lock()()
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *memoryRepo) CreateTicket(_ context.Context, t *models.Ticket) error {
	defer r.lock()()
	if r.failTicket {
		return errors.New("insert ticket failed")
	}
	if t.ID == "" {
		t.ID = "ticket-" + t.AppointmentID
	}
	cp := *t
	r.tickets[t.ID] = &cp
	return nil
}

func (r *memoryRepo) SaveAppointment(_ context.Context, ap *models.Appointment) error {
	defer r.lock()()
	stored, ok := r.appointments[ap.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = ap.Status
	stored.IsActive = ap.IsActive
	return nil
}

func (r *memoryRepo) SetTicketStatus(_ context.Context, ticketID string, from, to ticket.Status) error {
	defer r.lock()()
	stored, ok := r.tickets[ticketID]
	if !ok {
		return errors.New("ticket missing")
	}
	if stored.Status != string(from) {
		return ticket.ErrStale
	}
	stored.Status = string(to)
	return nil
}

type sequence struct {
	mu sync.Mutex
	n  int64
}

func (s *sequence) NextSequence(context.Context, string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n, nil
}

type stubQR struct{}

func (stubQR) Generate(_ context.Context, number, _ string) (string, error) {
	return "https://qr.test/" + number + ".png", nil
}
