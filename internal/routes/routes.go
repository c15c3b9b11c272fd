package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/careline-api/internal/audit"
	"github.com/BruksfildServices01/careline-api/internal/chat"
	"github.com/BruksfildServices01/careline-api/internal/config"
	"github.com/BruksfildServices01/careline-api/internal/handlers"
	infraRepo "github.com/BruksfildServices01/careline-api/internal/infra/repository"
	"github.com/BruksfildServices01/careline-api/internal/middleware"
	"github.com/BruksfildServices01/careline-api/internal/ticketcode"
	ucAppointment "github.com/BruksfildServices01/careline-api/internal/usecase/appointment"
	ucTicket "github.com/BruksfildServices01/careline-api/internal/usecase/ticket"
)

// Deps are the long-lived pieces owned by main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      zerolog.Logger
	Location *time.Location
	Audit    *audit.Dispatcher
	Issuer   *ticketcode.Issuer
	Uploads  handlers.Presigner
	Hub      *chat.Hub
	Sweep    *ucTicket.SweepExpired
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	clock := func() time.Time { return time.Now().In(d.Location) }

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	ticketRepo := infraRepo.NewTicketGormRepository(d.DB)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)

	// ======================================================
	// 🧠 USE CASES: TICKETS
	// ======================================================
	createTicketUC := ucTicket.NewCreateTicket(ticketRepo, d.Issuer, d.Audit)
	getTicketUC := ucTicket.NewGetTicket(ticketRepo)
	listTicketsUC := ucTicket.NewListTickets(ticketRepo)
	updateTicketUC := ucTicket.NewUpdateTicket(ticketRepo, d.Audit)
	validateTicketUC := ucTicket.NewValidateTicket(ticketRepo, d.Audit, clock)

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	bookAppointmentUC := ucAppointment.NewBookAppointment(appointmentRepo, d.Issuer, d.Audit)
	updateAppointmentStatusUC := ucAppointment.NewUpdateAppointmentStatus(appointmentRepo, d.Audit, d.Log)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	ticketHandler := handlers.NewTicketHandler(
		createTicketUC,
		getTicketUC,
		listTicketsUC,
		updateTicketUC,
		validateTicketUC,
		d.Sweep,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		bookAppointmentUC,
		updateAppointmentStatusUC,
		listAppointmentsUC,
		d.Location,
	)

	patientHandler := handlers.NewPatientHandler(d.DB, cfg.ProfileImageURL)
	doctorHandler := handlers.NewDoctorHandler(d.DB)
	uploadHandler := handlers.NewUploadHandler(d.Uploads)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Location)
	chatHandler := chat.NewHandler(d.Hub, cfg.CORSOrigins, d.Log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	v1 := r.Group("/v1")
	{
		// ------------------------------
		// TICKETS
		// ------------------------------
		tickets := v1.Group("/ticket")
		{
			tickets.POST("", ticketHandler.Create)
			tickets.GET("", ticketHandler.List)
			tickets.POST("/check-expired", ticketHandler.CheckExpired)
			tickets.GET("/validate/:ticketNumber", ticketHandler.Validate)
			tickets.GET("/:ticketNumber", ticketHandler.Get)
			tickets.PATCH("/:ticketNumber", ticketHandler.Update)
		}

		// ------------------------------
		// CHAT
		// ------------------------------
		v1.GET("/chat/ws", chatHandler.Connect)

		// ------------------------------
		// 🔐 BEARER WALLET
		// ------------------------------
		secured := v1.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/appointment/book", appointmentHandler.Book)
			secured.PATCH("/appointment/:id/status", appointmentHandler.UpdateStatus)
			secured.GET("/appointment/appointments", appointmentHandler.ListForPatient)
			secured.GET("/appointment/appointments/doctor", appointmentHandler.ListForDoctor)

			secured.POST("/patient", patientHandler.Create)
			secured.GET("/patient", patientHandler.Me)
			secured.PUT("/patient", patientHandler.Update)

			secured.POST("/doctor", doctorHandler.Create)
			secured.GET("/doctor/specializations", doctorHandler.Specializations)
			secured.GET("/doctor/:id", doctorHandler.Get)

			secured.POST("/aws/signedurl", uploadHandler.SignedURL)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
