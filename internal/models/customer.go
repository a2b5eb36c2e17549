package models

import "time"

// Customer has no login; Phone holds digits only and is unique per salon.
type Customer struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"uniqueIndex:idx_customers_salon_phone;not null" json:"salon_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;uniqueIndex:idx_customers_salon_phone;not null" json:"phone"`

	LastAppointmentAt *time.Time `json:"last_appointment_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
