package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/careline-api/internal/httperr"
	"github.com/BruksfildServices01/careline-api/internal/httpresp"
	"github.com/BruksfildServices01/careline-api/internal/middleware"
	"github.com/BruksfildServices01/careline-api/internal/models"
	"github.com/BruksfildServices01/careline-api/internal/validators"
)

type DoctorHandler struct {
	db       *gorm.DB
	resolver validators.Resolver
}

func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{db: db}
}

type CreateDoctorRequest struct {
	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email"`
	Age             int      `json:"age"`
	DoctorID        string   `json:"doctor_id" binding:"required"`
	ProfilePicture  string   `json:"profile_picture"`
	Hospital        string   `json:"hospital"`
	Experience      int      `json:"experience"`
	Qualification   string   `json:"qualification"`
	Bio             string   `json:"bio"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	AvailableDays   []string `json:"available_days"`
	ConsultancyFees float64  `json:"consultancy_fees"`
	Specialties     []string `json:"specialties"`
}

// ======================================================
// CREATE
// ======================================================

func (h *DoctorHandler) Create(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}

	if !validEmail(c, h.resolver, req.Email) {
		return
	}

	d := models.Doctor{
		Name:            req.Name,
		Email:           req.Email,
		Age:             req.Age,
		LicenseID:       req.DoctorID,
		WalletAddress:   middleware.Wallet(c),
		ProfilePicture:  req.ProfilePicture,
		Hospital:        req.Hospital,
		Experience:      req.Experience,
		Qualification:   req.Qualification,
		Bio:             req.Bio,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		AvailableDays:   req.AvailableDays,
		ConsultancyFees: req.ConsultancyFees,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		for _, name := range req.Specialties {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			s := models.Specialty{Name: name}
			if err := tx.Where(models.Specialty{Name: name}).FirstOrCreate(&s).Error; err != nil {
				return err
			}
			d.Specialties = append(d.Specialties, s)
		}
		return tx.Create(&d).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Write(c, http.StatusConflict, "doctor_exists", "Doctor already registered")
			return
		}
		httperr.Internal(c, "doctor_create_failed", "Failed to create doctor", err)
		return
	}

	httpresp.Created(c, d)
}

// ======================================================
// READ
// ======================================================

func (h *DoctorHandler) Get(c *gin.Context) {
	var d models.Doctor
	err := h.db.WithContext(c.Request.Context()).
		Preload("Specialties").
		First(&d, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found")
		return
	}
	if err != nil {
		httperr.Internal(c, "doctor_fetch_failed", "Failed to fetch doctor", err)
		return
	}

	httpresp.OK(c, d)
}

func (h *DoctorHandler) Specializations(c *gin.Context) {
	var names []string
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Specialty{}).
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		httperr.Internal(c, "specialization_list_failed", "Failed to list specializations", err)
		return
	}

	httpresp.List(c, names)
}
