package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/appointment"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/httpresp"
	"github.com/BruksfildServices01/careline-api/internal/middleware"
	"github.com/BruksfildServices01/careline-api/internal/models"
	ucAppointment "github.com/BruksfildServices01/careline-api/internal/usecase/appointment"
)

type (
	appointmentBooker interface {
		Execute(ctx context.Context, in domain.BookingInput) (*ucAppointment.BookResult, error)
	}
	appointmentStatusUpdater interface {
		Execute(ctx context.Context, appointmentID, status string) (*models.Appointment, error)
	}
	appointmentLister interface {
		ForPatient(ctx context.Context, wallet string) ([]models.Appointment, error)
		ForDoctor(ctx context.Context, wallet string) ([]models.Appointment, error)
	}
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book   appointmentBooker
	status appointmentStatusUpdater
	list   appointmentLister
	loc    *time.Location
}

func NewAppointmentHandler(
	book appointmentBooker,
	status appointmentStatusUpdater,
	list appointmentLister,
	loc *time.Location,
) *AppointmentHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AppointmentHandler{book: book, status: status, list: list, loc: loc}
}

// ======================================================
// BOOK
// ======================================================

type BookAppointmentRequest struct {
	PatientID      string  `json:"patient_id" binding:"required"`
	DoctorID       string  `json:"doctor_id" binding:"required"`
	Date           string  `json:"date" binding:"required"`
	AppointmentFee float64 `json:"appointment_fee"`
	AmountPaid     float64 `json:"amount_paid"`
	TxHash         string  `json:"tx_hash"`
	TicketNotes    *string `json:"ticket_notes"`
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	date, err := parseDate(req.Date, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date")
		return
	}

	res, err := h.book.Execute(c.Request.Context(), domain.BookingInput{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		Date:           date,
		AppointmentFee: req.AppointmentFee,
		AmountPaid:     req.AmountPaid,
		TxHash:         req.TxHash,
		TicketNotes:    req.TicketNotes,
	})
	if err != nil {
		writeError(c, err, "appointment_create_failed", "Failed to book appointment")
		return
	}

	httpresp.Created(c, res)
}

// ======================================================
// STATUS
// ======================================================

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err, "appointment_update_failed", "Failed to update appointment")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LISTS
// ======================================================

func (h *AppointmentHandler) ListForPatient(c *gin.Context) {
	list, err := h.list.ForPatient(c.Request.Context(), middleware.Wallet(c))
	if err != nil {
		writeError(c, err, "appointment_list_failed", "Failed to list appointments")
		return
	}
	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListForDoctor(c *gin.Context) {
	list, err := h.list.ForDoctor(c.Request.Context(), middleware.Wallet(c))
	if err != nil {
		writeError(c, err, "appointment_list_failed", "Failed to list appointments")
		return
	}
	httpresp.List(c, list)
}
