package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/audit"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/config"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/handlers"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/infra/locker"
	infraRepo "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/infra/repository"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/middleware"
	ucAppointment "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/usecase/appointment"
	ucCalendar "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/usecase/calendar"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *zerolog.Logger
	Locker locker.Locker
	Audit  *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, d.Log)

	createBookingUC := ucAppointment.NewCreateBooking(
		appointmentRepo,
		d.Locker,
		d.Audit,
		d.Log,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		d.Audit,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		d.Audit,
		d.Log,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)
	listCustomerAppointmentsUC := ucAppointment.NewListCustomerAppointments(appointmentRepo)

	// ======================================================
	// USE CASES: CALENDAR
	// ======================================================
	getWorkingHoursUC := ucCalendar.NewGetWorkingHours(appointmentRepo)
	updateWorkingHoursUC := ucCalendar.NewUpdateWorkingHours(appointmentRepo, d.Audit)
	listClosuresUC := ucCalendar.NewListClosures(appointmentRepo)
	createClosureUC := ucCalendar.NewCreateClosure(appointmentRepo, d.Audit)
	deleteClosureUC := ucCalendar.NewDeleteClosure(appointmentRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(
		d.DB,
		d.Log,
		getAvailabilityUC,
		createBookingUC,
		cancelAppointmentUC,
		listCustomerAppointmentsUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		d.DB,
		d.Log,
		createBookingUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)

	meHandler := handlers.NewMeHandler(d.DB, d.Log)
	salonHandler := handlers.NewSalonHandler(d.DB, d.Log, d.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.Log, getWorkingHoursUC, updateWorkingHoursUC)
	closureHandler := handlers.NewClosureHandler(d.Log, listClosuresUC, createClosureUC, deleteClosureUC)
	professionalHandler := handlers.NewProfessionalHandler(d.DB, d.Log)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Log)
	customerHandler := handlers.NewCustomerHandler(d.DB, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Log)

	// ======================================================
	// OPERATIONS
	// ======================================================
	r.GET("/health", health(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			salon := publicAPI.Group("/salons/:salonID")
			salon.GET("/services", publicHandler.ListServices)
			salon.GET("/professionals", publicHandler.ListProfessionals)
			salon.GET("/availability", publicHandler.Availability)
			salon.POST("/bookings", publicHandler.CreateBooking)
			salon.GET("/customers/check", publicHandler.CheckCustomer)

			publicAPI.GET("/appointments", publicHandler.ListMyAppointments)
			publicAPI.DELETE("/appointments/:reference", publicHandler.CancelMyAppointment)
		}

		// ------------------------------
		// SALON CONSOLE
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/salon", salonHandler.Get)
			secured.GET("/working-hours", workingHoursHandler.Get)
			secured.GET("/professionals", professionalHandler.List)
			secured.GET("/professionals/:id/working-hours", workingHoursHandler.Get)
			secured.GET("/services", serviceHandler.List)
			secured.GET("/closures", closureHandler.List)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/customers", customerHandler.List)
		}

		// ------------------------------
		// SALON MANAGEMENT (owner only)
		// ------------------------------
		owner := secured.Group("")
		owner.Use(middleware.RequireRole(middleware.RoleOwner))
		{
			owner.PATCH("/salon", salonHandler.Update)
			owner.PUT("/working-hours", workingHoursHandler.Update)

			owner.POST("/professionals", professionalHandler.Create)
			owner.PATCH("/professionals/:id", professionalHandler.Update)
			owner.PUT("/professionals/:id/working-hours", workingHoursHandler.Update)

			owner.POST("/services", serviceHandler.Create)
			owner.PATCH("/services/:id", serviceHandler.Update)

			owner.POST("/closures", closureHandler.Create)
			owner.DELETE("/closures/:id", closureHandler.Delete)

			owner.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
