package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httpresp"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

type ProfessionalHandler struct {
	db  *gorm.DB
	log *zerolog.Logger
}

func NewProfessionalHandler(db *gorm.DB, log *zerolog.Logger) *ProfessionalHandler {
	return &ProfessionalHandler{db: db, log: log}
}

// --------- Requests ---------

type CreateProfessionalRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	ServiceIDs []uint `json:"service_ids"`
}

type UpdateProfessionalRequest struct {
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	Active     *bool   `json:"active,omitempty"`
	ServiceIDs *[]uint `json:"service_ids,omitempty"`
}

// --------- Handlers ---------

func (h *ProfessionalHandler) List(c *gin.Context) {
	var professionals []models.Professional
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Services").
		Where("salon_id = ?", salonIDFrom(c)).
		Order("name ASC").
		Find(&professionals).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, professionals)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	salonID := salonIDFrom(c)

	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	services, ok := h.services(c, salonID, req.ServiceIDs)
	if !ok {
		return
	}

	professional := models.Professional{
		SalonID:  salonID,
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Active:   true,
		Services: services,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&professional).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, professional)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	salonID := salonIDFrom(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var professional models.Professional
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&professional).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, httperr.CodeProfessionalNotFound, "professional not found")
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var req UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	if req.Name != nil {
		professional.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		professional.Phone = *req.Phone
	}
	if req.Email != nil {
		professional.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Active != nil {
		professional.Active = *req.Active
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Services").Save(&professional).Error; err != nil {
			return err
		}
		if req.ServiceIDs == nil {
			return nil
		}

		services, err := findServices(tx, salonID, *req.ServiceIDs)
		if err != nil {
			return err
		}
		return tx.Model(&professional).Association("Services").Replace(services)
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Preload("Services").First(&professional, professional.ID).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, professional)
}

func (h *ProfessionalHandler) services(c *gin.Context, salonID uint, ids []uint) ([]models.Service, bool) {
	services, err := findServices(h.db.WithContext(c.Request.Context()), salonID, ids)
	if err != nil {
		respondError(c, h.log, err)
		return nil, false
	}
	return services, true
}

// findServices loads every id of the salon or fails with service_not_found.
func findServices(db *gorm.DB, salonID uint, ids []uint) ([]models.Service, error) {
	services := []models.Service{}
	if len(ids) == 0 {
		return services, nil
	}

	if err := db.Where("salon_id = ? AND id IN ?", salonID, ids).Find(&services).Error; err != nil {
		return nil, err
	}

	unique := map[uint]bool{}
	for _, id := range ids {
		unique[id] = true
	}
	if len(services) != len(unique) {
		return nil, httperr.ErrBusinessf(httperr.CodeServiceNotFound, "one or more services do not belong to this salon")
	}
	return services, nil
}
