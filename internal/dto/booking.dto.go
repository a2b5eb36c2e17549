package dto

import (
	"time"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

type BookingDTO struct {
	AppointmentID uint      `json:"appointment_id"`
	Reference     string    `json:"reference"`
	TotalPrice    float64   `json:"total_price"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

func Booking(ap *models.Appointment, loc *time.Location) BookingDTO {
	return BookingDTO{
		AppointmentID: ap.ID,
		Reference:     ap.Reference,
		TotalPrice:    ap.TotalPrice,
		StartTime:     ap.StartTime.In(loc),
		EndTime:       ap.EndTime.In(loc),
	}
}

type AvailabilityDTO struct {
	Date         string   `json:"date"`
	Slots        []string `json:"slots"`
	ArrivalOrder bool     `json:"arrival_order"`
}
