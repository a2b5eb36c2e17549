package models

import "time"

// Closure blocks booking between StartTime and EndTime. A nil ProfessionalID
// closes the whole salon.
type Closure struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	SalonID        uint  `gorm:"index;not null" json:"salon_id"`
	ProfessionalID *uint `gorm:"index" json:"professional_id"`

	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Kind      string    `gorm:"size:20;default:'normal'" json:"kind"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
