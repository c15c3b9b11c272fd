package ticket

import "github.com/BruksfildServices01/careline-api/internal/httperr"

// ===============================
// Ticket Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusScheduled Status = "scheduled"
	StatusUsed      Status = "used"
	StatusResolved  Status = "resolved"
	StatusCancelled Status = "cancelled"
)

var allStatuses = []Status{
	StatusPending,
	StatusActive,
	StatusScheduled,
	StatusUsed,
	StatusResolved,
	StatusCancelled,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// Usable reports whether a ticket in this status admits check-in.
func (s Status) Usable() bool {
	return s == StatusActive || s == StatusScheduled
}

// ===============================
// Transitions
// ===============================

// used and resolved are final markers except for cancellation; cancelled
// is final.
var transitions = map[Status][]Status{
	StatusPending:   {StatusActive, StatusScheduled, StatusUsed, StatusResolved},
	StatusActive:    {StatusScheduled, StatusUsed, StatusResolved},
	StatusScheduled: {StatusActive, StatusUsed, StatusResolved},
}

// CanTransition guards every status write. Any status may move straight
// to cancelled, and re-applying the current status is a no-op.
func CanTransition(from, to Status) error {
	if from == to || to == StatusCancelled {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_transition")
}

// StatusForAppointment maps an appointment status onto its ticket.
// A completed appointment consumes the ticket; the rest carry over.
func StatusForAppointment(appointmentStatus string) Status {
	if appointmentStatus == "completed" {
		return StatusUsed
	}
	return Status(appointmentStatus)
}
