package dto

import (
	"time"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

type AppointmentListDTO struct {
	ID               uint      `json:"id"`
	Reference        string    `json:"reference"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	Origin           string    `json:"origin"`
	ProfessionalID   uint      `json:"professional_id"`
	ProfessionalName string    `json:"professional_name"`
	CustomerName     string    `json:"customer_name"`
	CustomerPhone    string    `json:"customer_phone"`
	Services         []string  `json:"services"`
	TotalPrice       float64   `json:"total_price"`
	FinalPrice       *float64  `json:"final_price,omitempty"`
}

// AppointmentList renders times in loc so the console shows salon wall time.
func AppointmentList(apps []models.Appointment, loc *time.Location) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		names := make([]string, 0, len(ap.Services))
		for _, s := range ap.Services {
			names = append(names, s.Name)
		}

		out = append(out, AppointmentListDTO{
			ID:               ap.ID,
			Reference:        ap.Reference,
			StartTime:        ap.StartTime.In(loc),
			EndTime:          ap.EndTime.In(loc),
			Status:           ap.Status,
			Origin:           ap.Origin,
			ProfessionalID:   ap.ProfessionalID,
			ProfessionalName: ap.Professional.Name,
			CustomerName:     ap.CustomerName,
			CustomerPhone:    ap.CustomerPhone,
			Services:         names,
			TotalPrice:       ap.TotalPrice,
			FinalPrice:       ap.FinalPrice,
		})
	}
	return out
}
