package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/middleware"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

// respondError renders business errors with their mapped status. Anything
// else is logged with the request id and hidden behind a 500.
func respondError(c *gin.Context, log *zerolog.Logger, err error) {
	if httperr.WriteBusiness(c, err) {
		return
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.ContextRequestID)).
		Str("path", c.FullPath()).
		Msg("request failed")
	httperr.Internal(c, "internal_error", "unexpected error")
}

func salonIDFrom(c *gin.Context) uint {
	return c.MustGet(middleware.ContextSalonID).(uint)
}

func userIDFrom(c *gin.Context) *uint {
	id := c.MustGet(middleware.ContextUserID).(uint)
	return &id
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// paramID reads a positive numeric path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, ok := parseID(c.Param(name))
	if !ok {
		httperr.BadRequest(c, httperr.CodeInvalidInput, name+" must be a positive integer")
	}
	return id, ok
}

// optionalQueryID reads a numeric query parameter; absent means 0.
func optionalQueryID(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	id, ok := parseID(raw)
	if !ok {
		httperr.BadRequest(c, httperr.CodeInvalidInput, name+" must be a positive integer")
	}
	return id, ok
}

// parseIDList accepts "1,2,3".
func parseIDList(raw string) ([]uint, bool) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, ok := parseID(part)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, len(ids) > 0
}

func loadSalon(c *gin.Context, db *gorm.DB, log *zerolog.Logger, id uint) (*models.Salon, bool) {
	var salon models.Salon
	err := db.WithContext(c.Request.Context()).First(&salon, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, httperr.CodeSalonNotFound, "salon not found")
		return nil, false
	}
	if err != nil {
		respondError(c, log, err)
		return nil, false
	}
	return &salon, true
}

func likePattern(query string) string {
	return "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
}
