package ticket

import "time"

// ValidityDays is the grace window after the appointment date.
const ValidityDays = 3

// ExpiryFor derives expires_at from the appointment date alone.
func ExpiryFor(appointmentDate time.Time) time.Time {
	return appointmentDate.AddDate(0, 0, ValidityDays)
}

// IsExpired only fires once the appointment itself is in the past, so a
// ticket for a future appointment never expires early. A cancelled ticket
// has nothing left to expire.
func IsExpired(status Status, appointmentDate, expiresAt, now time.Time) bool {
	if status == StatusCancelled {
		return false
	}
	return appointmentDate.Before(now) && now.After(expiresAt)
}

type Outcome string

const (
	OutcomeValid   Outcome = "valid"
	OutcomeExpired Outcome = "expired"
	OutcomePending Outcome = "pending"
	OutcomeInvalid Outcome = "invalid"
)

type Validity struct {
	ExpiresAt        time.Time `json:"expires_at"`
	AppointmentDate  time.Time `json:"appointment_date"`
	RemainingHours   int64     `json:"remaining_hours"`
	RemainingMinutes int64     `json:"remaining_minutes"`
}

type Validation struct {
	Outcome  Outcome
	Status   Status
	Validity Validity
}

// Evaluate classifies a ticket at instant now. Expiry is checked first,
// then the pending and unusable states.
func Evaluate(status Status, appointmentDate, expiresAt, now time.Time) Validation {
	v := Validation{
		Status: status,
		Validity: Validity{
			ExpiresAt:       expiresAt,
			AppointmentDate: appointmentDate,
		},
	}

	switch {
	case IsExpired(status, appointmentDate, expiresAt, now):
		v.Outcome = OutcomeExpired
		v.Status = StatusCancelled
		return v
	case status == StatusPending:
		v.Outcome = OutcomePending
		return v
	case !status.Usable():
		v.Outcome = OutcomeInvalid
		return v
	}

	v.Outcome = OutcomeValid
	if appointmentDate.Before(now) {
		v.Validity.RemainingHours, v.Validity.RemainingMinutes = remaining(expiresAt.Sub(now))
	}
	return v
}

func remaining(d time.Duration) (hours, minutes int64) {
	if d <= 0 {
		return 0, 0
	}
	hours = int64(d / time.Hour)
	minutes = int64((d % time.Hour) / time.Minute)
	return hours, minutes
}
