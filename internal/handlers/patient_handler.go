package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/httpresp"
	"github.com/BruksfildServices01/careline-api/internal/middleware"
	"github.com/BruksfildServices01/careline-api/internal/models"
	"github.com/BruksfildServices01/careline-api/internal/validators"
)

type PatientHandler struct {
	db              *gorm.DB
	profileImageURL string
	resolver        validators.Resolver
}

func NewPatientHandler(db *gorm.DB, profileImageURL string) *PatientHandler {
	return &PatientHandler{db: db, profileImageURL: profileImageURL}
}

// ======================================================
// REQUESTS
// ======================================================

type CreatePatientRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	BloodGroup string `json:"blood_group"`
}

type UpdatePatientRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Age            *int    `json:"age"`
	Gender         *string `json:"gender"`
	BloodGroup     *string `json:"blood_group"`
	ProfilePicture *string `json:"profile_picture"`
}

// ======================================================
// CREATE
// ======================================================

func (h *PatientHandler) Create(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	if !validEmail(c, h.resolver, req.Email) {
		return
	}

	p := models.Patient{
		Name:           req.Name,
		Email:          req.Email,
		Age:            req.Age,
		Gender:         req.Gender,
		BloodGroup:     req.BloodGroup,
		WalletAddress:  middleware.Wallet(c),
		ProfilePicture: h.profileImageURL + url.QueryEscape(req.Name),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Write(c, http.StatusConflict, "patient_exists", "Patient already registered for this wallet")
			return
		}
		httperr.Internal(c, "patient_create_failed", "Failed to create patient", err)
		return
	}

	httpresp.Created(c, p)
}

// ======================================================
// READ
// ======================================================

func (h *PatientHandler) Me(c *gin.Context) {
	var p models.Patient
	err := h.db.WithContext(c.Request.Context()).
		Preload("Appointments.Ticket").
		Preload("Appointments.Doctor").
		Where("wallet_address = ?", middleware.Wallet(c)).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "patient_not_found", "Patient not found")
		return
	}
	if err != nil {
		httperr.Internal(c, "patient_fetch_failed", "Failed to fetch patient", err)
		return
	}

	httpresp.OK(c, p)
}

// ======================================================
// UPDATE
// ======================================================

func (h *PatientHandler) Update(c *gin.Context) {
	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		if !validEmail(c, h.resolver, *req.Email) {
			return
		}
		updates["email"] = *req.Email
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.BloodGroup != nil {
		updates["blood_group"] = *req.BloodGroup
	}
	if req.ProfilePicture != nil {
		updates["profile_picture"] = *req.ProfilePicture
	}
	if len(updates) == 0 {
		httperr.BadRequest(c, "empty_update", "Nothing to update")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var p models.Patient
	if err := db.Where("wallet_address = ?", middleware.Wallet(c)).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "patient_not_found", "Patient not found")
			return
		}
		httperr.Internal(c, "patient_fetch_failed", "Failed to fetch patient", err)
		return
	}

	if err := db.Model(&p).Updates(updates).Error; err != nil {
		httperr.Internal(c, "patient_update_failed", "Failed to update patient", err)
		return
	}

	httpresp.OK(c, p)
}

// validEmail writes a 400 and reports false when a non-empty address
// fails validation.
func validEmail(c *gin.Context, r validators.Resolver, email string) bool {
	if email == "" {
		return true
	}
	if err := validators.Email(c.Request.Context(), r, email); err != nil {
		httperr.BadRequest(c, "invalid_email", "Invalid email address")
		return false
	}
	return true
}
