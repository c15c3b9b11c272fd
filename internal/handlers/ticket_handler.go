package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/careline-api/internal/domain/ticket"
	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/httpresp"
	"github.com/BruksfildServices01/careline-api/internal/models"
	ucTicket "github.com/BruksfildServices01/careline-api/internal/usecase/ticket"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type (
	ticketCreator interface {
		Execute(ctx context.Context, in ucTicket.CreateInput) (*models.Ticket, error)
	}
	ticketGetter interface {
		Execute(ctx context.Context, number string) (*models.Ticket, error)
	}
	ticketLister interface {
		Execute(ctx context.Context, in ucTicket.ListInput) ([]models.Ticket, error)
	}
	ticketUpdater interface {
		Execute(ctx context.Context, number string, in ucTicket.UpdateInput) (*models.Ticket, error)
	}
	ticketValidator interface {
		Execute(ctx context.Context, number string) (*ucTicket.ValidationResult, error)
	}
	ticketSweeper interface {
		Execute(ctx context.Context) (int64, error)
	}
)

// ======================================================
// HANDLER
// ======================================================

type TicketHandler struct {
	create   ticketCreator
	get      ticketGetter
	list     ticketLister
	update   ticketUpdater
	validate ticketValidator
	sweep    ticketSweeper
}

func NewTicketHandler(
	create ticketCreator,
	get ticketGetter,
	list ticketLister,
	update ticketUpdater,
	validate ticketValidator,
	sweep ticketSweeper,
) *TicketHandler {
	return &TicketHandler{
		create:   create,
		get:      get,
		list:     list,
		update:   update,
		validate: validate,
		sweep:    sweep,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateTicketRequest struct {
	AppointmentID string  `json:"appointment_id"`
	Notes         *string `json:"notes"`
}

type UpdateTicketRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *TicketHandler) Create(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	t, err := h.create.Execute(c.Request.Context(), ucTicket.CreateInput{
		AppointmentID: req.AppointmentID,
		Notes:         req.Notes,
	})
	if err != nil {
		var exists *domain.ExistsError
		if errors.As(err, &exists) {
			httperr.Conflict(c, "ticket_exists", "Ticket already exists for this appointment", exists.Ticket)
			return
		}
		writeError(c, err, "ticket_create_failed", "Failed to create ticket")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":          "success",
		"data":            t,
		"expires_in_days": domain.ValidityDays,
	})
}

// ======================================================
// READ
// ======================================================

func (h *TicketHandler) Get(c *gin.Context) {
	t, err := h.get.Execute(c.Request.Context(), c.Param("ticketNumber"))
	if err != nil {
		writeError(c, err, "ticket_fetch_failed", "Failed to fetch ticket")
		return
	}
	httpresp.OK(c, t)
}

func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.list.Execute(c.Request.Context(), ucTicket.ListInput{
		Status:    c.Query("status"),
		PatientID: c.Query("patient_id"),
		DoctorID:  c.Query("doctor_id"),
	})
	if err != nil {
		writeError(c, err, "ticket_list_failed", "Failed to list tickets")
		return
	}
	httpresp.List(c, tickets)
}

// ======================================================
// UPDATE
// ======================================================

func (h *TicketHandler) Update(c *gin.Context) {
	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	t, err := h.update.Execute(c.Request.Context(), c.Param("ticketNumber"), ucTicket.UpdateInput{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		writeError(c, err, "ticket_update_failed", "Failed to update ticket")
		return
	}
	httpresp.OK(c, t)
}

// ======================================================
// VALIDATE
// ======================================================

func (h *TicketHandler) Validate(c *gin.Context) {
	res, err := h.validate.Execute(c.Request.Context(), c.Param("ticketNumber"))
	if err != nil {
		writeError(c, err, "ticket_validate_failed", "Failed to validate ticket")
		return
	}

	switch res.Validation.Outcome {
	case domain.OutcomeExpired:
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Ticket has expired",
			"ticket":  res.Ticket,
		})
	case domain.OutcomePending:
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "pending",
			"message": "Ticket is pending doctor approval",
			"ticket":  res.Ticket,
		})
	case domain.OutcomeInvalid:
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("Ticket is %s", res.Ticket.Status),
			"ticket":  res.Ticket,
		})
	default:
		httpresp.Message(c, http.StatusOK, "Ticket is valid", gin.H{
			"ticket":   res.Ticket,
			"validity": res.Validation.Validity,
		})
	}
}

// ======================================================
// SWEEP
// ======================================================

func (h *TicketHandler) CheckExpired(c *gin.Context) {
	n, err := h.sweep.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "ticket_sweep_failed", "Failed to check expired tickets", err)
		return
	}
	httpresp.Message(c, http.StatusOK,
		fmt.Sprintf("%d expired tickets have been updated", n),
		gin.H{"updated": n},
	)
}
