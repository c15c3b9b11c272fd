package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/careline-api/internal/httperr"
)

var businessMessages = map[string]string{
	"appointment_id_required":     "Appointment ID is required",
	"appointment_not_found":       "Appointment not found",
	"appointment_exists":          "Appointment already exists for this date",
	"patient_not_found":           "Patient not found",
	"doctor_not_found":            "Doctor not found",
	"ticket_not_found":            "Ticket not found",
	"invalid_status":              "Invalid status",
	"invalid_transition":          "Status transition not allowed",
	"invalid_state":               "Appointment can no longer change status",
	"empty_update":                "Nothing to update",
	"invalid_date":                "Invalid date",
	"invalid_appointment_fee":     "Appointment fee must be positive",
	"invalid_amount_paid":         "Amount paid must be positive",
	"tx_hash_required":            "Transaction hash is required",
	"patient_and_doctor_required": "Patient and doctor are required",
	"ticket_conflict":             "Ticket changed concurrently, retry",
}

// writeError maps use case errors onto responses. Business codes ending
// in _not_found become 404, *_exists and *_conflict 409, the rest 400.
// Anything else is an internal error.
func writeError(c *gin.Context, err error, internalCode, internalMsg string) {
	code, ok := httperr.CodeOf(err)
	if !ok {
		httperr.Internal(c, internalCode, internalMsg, err)
		return
	}

	msg, ok := businessMessages[code]
	if !ok {
		msg = "Invalid request"
	}

	switch {
	case strings.HasSuffix(code, "_not_found"):
		httperr.NotFound(c, code, msg)
	case strings.HasSuffix(code, "_exists"), strings.HasSuffix(code, "_conflict"):
		httperr.Write(c, http.StatusConflict, code, msg)
	default:
		httperr.BadRequest(c, code, msg)
	}
}
