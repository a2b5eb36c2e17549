package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/availability"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httpresp"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db  *gorm.DB
	log *zerolog.Logger
}

func NewAuditLogsHandler(db *gorm.DB, log *zerolog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	salon, ok := loadSalon(c, h.db, h.log, salonIDFrom(c))
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// --------------------------------------------------
	// always scoped to the token's salon
	// --------------------------------------------------
	q := h.db.
		WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("salon_id = ?", salon.ID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	// dates are salon days, both ends inclusive
	if from := c.Query("from"); from != "" {
		day, err := timezone.ParseDate(salon.Timezone, from)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "from must be YYYY-MM-DD")
			return
		}
		q = q.Where("created_at >= ?", day.UTC())
	}
	if to := c.Query("to"); to != "" {
		day, err := timezone.ParseDate(salon.Timezone, to)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "to must be YYYY-MM-DD")
			return
		}
		q = q.Where("created_at < ?", availability.DayOf(day).End.UTC())
	}

	var count int64
	if err := q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.Paged(c, logs, page, limit, count)
}
