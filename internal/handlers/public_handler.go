package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/dto"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httpresp"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/middleware"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/timezone"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/usecase/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db  *gorm.DB
	log *zerolog.Logger

	availability *appointment.GetAvailability
	booking      *appointment.CreateBooking
	cancel       *appointment.CancelAppointment
	myBookings   *appointment.ListCustomerAppointments
}

func NewPublicHandler(
	db *gorm.DB,
	log *zerolog.Logger,
	availability *appointment.GetAvailability,
	booking *appointment.CreateBooking,
	cancel *appointment.CancelAppointment,
	myBookings *appointment.ListCustomerAppointments,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		log:          log,
		availability: availability,
		booking:      booking,
		cancel:       cancel,
		myBookings:   myBookings,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicBookingRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:mm
	ServiceIDs     []uint `json:"service_ids" binding:"required,min=1"`
	CustomerName   string `json:"customer_name" binding:"required"`
	CustomerPhone  string `json:"customer_phone" binding:"required"`
	Notes          string `json:"notes"`
}

type CancelByCustomerRequest struct {
	Phone string `json:"phone" binding:"required"`
}

////////////////////////////////////////////////////////
// CATALOGUE
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	salonID, ok := paramID(c, "salonID")
	if !ok {
		return
	}
	if _, ok := loadSalon(c, h.db, h.log, salonID); !ok {
		return
	}

	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("salon_id = ? AND active = ?", salonID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, services)
}

// ListProfessionals lists active professionals, only those offering
// service_id when it is given.
func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	salonID, ok := paramID(c, "salonID")
	if !ok {
		return
	}
	serviceID, ok := optionalQueryID(c, "service_id")
	if !ok {
		return
	}
	if _, ok := loadSalon(c, h.db, h.log, salonID); !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Where("professionals.salon_id = ? AND professionals.active = ?", salonID, true)
	if serviceID != 0 {
		q = q.Joins(
			"JOIN professional_services ps ON ps.professional_id = professionals.id AND ps.service_id = ?",
			serviceID,
		)
	}

	var professionals []models.Professional
	if err := q.Order("professionals.name ASC").Find(&professionals).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, professionals)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	salonID, ok := paramID(c, "salonID")
	if !ok {
		return
	}

	professionalID, ok := parseID(c.Query("professional_id"))
	if !ok {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "professional_id is required")
		return
	}
	serviceIDs, ok := parseIDList(c.Query("services"))
	if !ok {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "services must be a comma separated list of ids")
		return
	}
	date := strings.TrimSpace(c.Query("date"))

	res, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		SalonID:        salonID,
		ProfessionalID: professionalID,
		Date:           date,
		ServiceIDs:     serviceIDs,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if res.IsArrivalOrder() {
		c.Header(middleware.ArrivalOrderHeader, "true")
	}

	c.JSON(http.StatusOK, dto.AvailabilityDTO{
		Date:         date,
		Slots:        res.Times(),
		ArrivalOrder: res.IsArrivalOrder(),
	})
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	salonID, ok := paramID(c, "salonID")
	if !ok {
		return
	}

	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	salon, ok := loadSalon(c, h.db, h.log, salonID)
	if !ok {
		return
	}

	ap, err := h.booking.Execute(c.Request.Context(), domain.CreateBookingInput{
		SalonID:        salonID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Time:           req.Time,
		ServiceIDs:     req.ServiceIDs,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Notes:          req.Notes,
		Origin:         domain.OriginClient,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Booking(ap, timezone.Location(salon.Timezone)))
}

////////////////////////////////////////////////////////
// CUSTOMER SELF-SERVICE
////////////////////////////////////////////////////////

// CheckCustomer lets the booking page prefill the name of a returning customer.
func (h *PublicHandler) CheckCustomer(c *gin.Context) {
	salonID, ok := paramID(c, "salonID")
	if !ok {
		return
	}

	phone := validators.NormalizePhone(c.Query("phone"))
	if !validators.IsPhoneValid(phone) {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "phone is invalid")
		return
	}

	var customer models.Customer
	err := h.db.WithContext(c.Request.Context()).
		Where("salon_id = ? AND phone = ?", salonID, phone).
		Limit(1).
		Find(&customer).Error
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if customer.ID == 0 {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "name": customer.Name})
}

func (h *PublicHandler) ListMyAppointments(c *gin.Context) {
	list, err := h.myBookings.Execute(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}

func (h *PublicHandler) CancelMyAppointment(c *gin.Context) {
	var req CancelByCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "phone is required")
		return
	}

	ap, err := h.cancel.ExecuteByCustomer(c.Request.Context(), c.Param("reference"), req.Phone)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reference": ap.Reference,
		"status":    ap.Status,
	})
}
