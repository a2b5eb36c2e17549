package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/dto"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httpresp"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/timezone"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db  *gorm.DB
	log *zerolog.Logger

	create   *appointment.CreateBooking
	complete *appointment.CompleteAppointment
	cancel   *appointment.CancelAppointment
	byDate   *appointment.ListAppointmentsByDate
	byMonth  *appointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	db *gorm.DB,
	log *zerolog.Logger,
	create *appointment.CreateBooking,
	complete *appointment.CompleteAppointment,
	cancel *appointment.CancelAppointment,
	byDate *appointment.ListAppointmentsByDate,
	byMonth *appointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:       db,
		log:      log,
		create:   create,
		complete: complete,
		cancel:   cancel,
		byDate:   byDate,
		byMonth:  byMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceIDs     []uint `json:"service_ids" binding:"required,min=1"`
	CustomerName   string `json:"customer_name" binding:"required"`
	CustomerPhone  string `json:"customer_phone" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Notes          string `json:"notes"`
}

type CompleteAppointmentRequest struct {
	FinalPrice *float64 `json:"final_price"`
}

// ======================================================
// CREATE (panel booking, same committer as the public page)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	salonID := salonIDFrom(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	salon, ok := loadSalon(c, h.db, h.log, salonID)
	if !ok {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), domain.CreateBookingInput{
		SalonID:        salonID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Time:           req.Time,
		ServiceIDs:     req.ServiceIDs,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Notes:          req.Notes,
		Origin:         domain.OriginPanel,
		UserID:         userIDFrom(c),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Booking(ap, timezone.Location(salon.Timezone)))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "date is required")
		return
	}
	professionalID, ok := optionalQueryID(c, "professional_id")
	if !ok {
		return
	}

	list, err := h.byDate.Execute(c.Request.Context(), salonIDFrom(c), professionalID, date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "year is required")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "month is required")
		return
	}
	professionalID, ok := optionalQueryID(c, "professional_id")
	if !ok {
		return
	}

	list, err := h.byMonth.Execute(c.Request.Context(), salonIDFrom(c), professionalID, year, month)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

// ======================================================
// COMPLETE
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CompleteAppointmentRequest
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), salonIDFrom(c), userIDFrom(c), id, req.FinalPrice)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.render(c, ap)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), salonIDFrom(c), userIDFrom(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.render(c, ap)
}

func (h *AppointmentHandler) render(c *gin.Context, ap *models.Appointment) {
	salon, ok := loadSalon(c, h.db, h.log, ap.SalonID)
	if !ok {
		return
	}

	list := dto.AppointmentList([]models.Appointment{*ap}, timezone.Location(salon.Timezone))
	c.JSON(http.StatusOK, list[0])
}
