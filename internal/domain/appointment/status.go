package appointment

import "github.com/BruksfildServices01/careline-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// ===============================
// Validations
// ===============================

// CanChange rejects moving a completed or cancelled appointment.
func CanChange(current, next Status) error {
	if current == next {
		return nil
	}
	if current == StatusCompleted || current == StatusCancelled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
