package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httpresp"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/usecase/calendar"
)

type WorkingHoursHandler struct {
	log    *zerolog.Logger
	get    *calendar.GetWorkingHours
	update *calendar.UpdateWorkingHours
}

func NewWorkingHoursHandler(
	log *zerolog.Logger,
	get *calendar.GetWorkingHours,
	update *calendar.UpdateWorkingHours,
) *WorkingHoursHandler {
	return &WorkingHoursHandler{log: log, get: get, update: update}
}

type WorkingHoursUpdateRequest struct {
	Days []calendar.DayInput `json:"days" binding:"required"`
}

// owner resolves whose week the route addresses: 0 is the salon default.
func owner(c *gin.Context) (uint, bool) {
	if c.Param("id") == "" {
		return 0, true
	}
	return paramID(c, "id")
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	professionalID, ok := owner(c)
	if !ok {
		return
	}

	rows, err := h.get.Execute(c.Request.Context(), salonIDFrom(c), professionalID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, rows)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	professionalID, ok := owner(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	rows, err := h.update.Execute(c.Request.Context(), salonIDFrom(c), userIDFrom(c), professionalID, req.Days)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, rows)
}
