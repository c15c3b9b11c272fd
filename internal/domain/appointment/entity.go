package appointment

import (
	"time"

	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

type BookingInput struct {
	PatientID      string
	DoctorID       string
	Date           time.Time
	AppointmentFee float64
	AmountPaid     float64
	TxHash         string
	TicketNotes    *string
}

func (in BookingInput) Validate() error {
	switch {
	case in.PatientID == "" || in.DoctorID == "":
		return httperr.ErrBusiness("patient_and_doctor_required")
	case in.Date.IsZero():
		return httperr.ErrBusiness("invalid_date")
	case in.AppointmentFee <= 0:
		return httperr.ErrBusiness("invalid_appointment_fee")
	case in.AmountPaid <= 0:
		return httperr.ErrBusiness("invalid_amount_paid")
	case in.TxHash == "":
		return httperr.ErrBusiness("tx_hash_required")
	}
	return nil
}

func NewAppointment(in BookingInput) *models.Appointment {
	return &models.Appointment{
		PatientID:      in.PatientID,
		DoctorID:       in.DoctorID,
		Date:           in.Date,
		AppointmentFee: in.AppointmentFee,
		AmountPaid:     in.AmountPaid,
		TxHash:         in.TxHash,
		Status:         string(InitialStatus()),
		IsActive:       true,
	}
}

func ChangeStatus(ap *models.Appointment, next Status) error {
	if err := CanChange(Status(ap.Status), next); err != nil {
		return err
	}
	ap.Status = string(next)
	return nil
}
