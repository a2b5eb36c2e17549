package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/middleware"
)

type MeHandler struct {
	db  *gorm.DB
	log *zerolog.Logger
}

func NewMeHandler(db *gorm.DB, log *zerolog.Logger) *MeHandler {
	return &MeHandler{db: db, log: log}
}

// GetMe echoes the token scope together with the salon it points at.
func (h *MeHandler) GetMe(c *gin.Context) {
	salon, ok := loadSalon(c, h.db, h.log, salonIDFrom(c))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":   *userIDFrom(c),
			"role": c.GetString(middleware.ContextUserRole),
		},
		"salon": gin.H{
			"id":       salon.ID,
			"name":     salon.Name,
			"slug":     salon.Slug,
			"phone":    salon.Phone,
			"address":  salon.Address,
			"timezone": salon.Timezone,
		},
	})
}
