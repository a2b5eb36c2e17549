package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httpresp"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/validators"
)

type CustomerHandler struct {
	db  *gorm.DB
	log *zerolog.Logger
}

func NewCustomerHandler(db *gorm.DB, log *zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{db: db, log: log}
}

// ======================================================
// LIST CUSTOMERS
// ======================================================
func (h *CustomerHandler) List(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))

	q := h.db.WithContext(c.Request.Context()).Where("salon_id = ?", salonIDFrom(c))

	if query != "" {
		like := likePattern(query)
		if digits := validators.NormalizePhone(query); digits != "" {
			q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+digits+"%")
		} else {
			q = q.Where("LOWER(name) LIKE ?", like)
		}
	}

	var customers []models.Customer
	if err := q.
		Order("last_appointment_at DESC NULLS LAST, name ASC").
		Limit(200).
		Find(&customers).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, customers)
}
