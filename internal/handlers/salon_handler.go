package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/audit"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/timezone"
)

type SalonHandler struct {
	db    *gorm.DB
	log   *zerolog.Logger
	audit *audit.Dispatcher
}

func NewSalonHandler(db *gorm.DB, log *zerolog.Logger, audit *audit.Dispatcher) *SalonHandler {
	return &SalonHandler{db: db, log: log, audit: audit}
}

// UpdateSalonRequest carries only the fields being changed.
type UpdateSalonRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`

	SlotIntervalMinutes      *int `json:"slot_interval_minutes"`
	AppointmentBufferMinutes *int `json:"appointment_buffer_minutes"`
	MinNoticeMinutes         *int `json:"min_notice_minutes"`
	MaxFutureDays            *int `json:"max_future_days"`
}

func (h *SalonHandler) Get(c *gin.Context) {
	salon, ok := loadSalon(c, h.db, h.log, salonIDFrom(c))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, salon)
}

func (h *SalonHandler) Update(c *gin.Context) {
	salon, ok := loadSalon(c, h.db, h.log, salonIDFrom(c))
	if !ok {
		return
	}

	var req UpdateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	changed := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "name must not be empty")
			return
		}
		salon.Name = name
		changed["name"] = name
	}
	if req.Phone != nil {
		salon.Phone = strings.TrimSpace(*req.Phone)
		changed["phone"] = salon.Phone
	}
	if req.Address != nil {
		salon.Address = strings.TrimSpace(*req.Address)
		changed["address"] = salon.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "timezone is not a known IANA zone")
			return
		}
		salon.Timezone = *req.Timezone
		changed["timezone"] = salon.Timezone
	}

	// --------------------------------------------------
	// booking policy
	// --------------------------------------------------
	if v := req.SlotIntervalMinutes; v != nil {
		if *v <= 0 || *v > 24*60 {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "slot_interval_minutes must be between 1 and 1440")
			return
		}
		salon.SlotIntervalMinutes = *v
		changed["slot_interval_minutes"] = *v
	}
	if v := req.AppointmentBufferMinutes; v != nil {
		if *v < 0 {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "appointment_buffer_minutes must be zero or positive")
			return
		}
		salon.AppointmentBufferMinutes = *v
		changed["appointment_buffer_minutes"] = *v
	}
	if v := req.MinNoticeMinutes; v != nil {
		if *v < 0 {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "min_notice_minutes must be zero or positive")
			return
		}
		salon.MinNoticeMinutes = *v
		changed["min_notice_minutes"] = *v
	}
	if v := req.MaxFutureDays; v != nil {
		if *v <= 0 {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "max_future_days must be positive")
			return
		}
		salon.MaxFutureDays = *v
		changed["max_future_days"] = *v
	}

	// Save writes zero values too, so a buffer of 0 is kept
	if err := h.db.WithContext(c.Request.Context()).Save(salon).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	if len(changed) > 0 {
		h.audit.Dispatch(audit.Event{
			SalonID:  salon.ID,
			UserID:   userIDFrom(c),
			Action:   audit.ActionSettingsUpdated,
			Entity:   "salon",
			EntityID: &salon.ID,
			Metadata: changed,
		})
	}

	c.JSON(http.StatusOK, salon)
}
