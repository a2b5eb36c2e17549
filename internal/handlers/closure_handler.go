package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httpresp"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/usecase/calendar"
)

type ClosureHandler struct {
	log    *zerolog.Logger
	list   *calendar.ListClosures
	create *calendar.CreateClosure
	remove *calendar.DeleteClosure
}

func NewClosureHandler(
	log *zerolog.Logger,
	list *calendar.ListClosures,
	create *calendar.CreateClosure,
	remove *calendar.DeleteClosure,
) *ClosureHandler {
	return &ClosureHandler{log: log, list: list, create: create, remove: remove}
}

func (h *ClosureHandler) List(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "from and to are required")
		return
	}

	closures, err := h.list.Execute(c.Request.Context(), salonIDFrom(c), from, to)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, closures)
}

func (h *ClosureHandler) Create(c *gin.Context) {
	var req calendar.ClosureInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	closure, err := h.create.Execute(c.Request.Context(), salonIDFrom(c), userIDFrom(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, closure)
}

func (h *ClosureHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), salonIDFrom(c), userIDFrom(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
