package models

import "time"

type BreakPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours is one weekday of a calendar. ProfessionalID 0 marks the
// salon default; any other value is that professional's override.
type WorkingHours struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	SalonID        uint `gorm:"uniqueIndex:idx_working_hours_owner_day;not null" json:"salon_id"`
	ProfessionalID uint `gorm:"uniqueIndex:idx_working_hours_owner_day;not null;default:0" json:"professional_id"`
	Weekday        int  `gorm:"uniqueIndex:idx_working_hours_owner_day;not null" json:"weekday"`

	IsOpen    bool          `json:"is_open"`
	OpenTime  string        `gorm:"size:5" json:"open_time"`
	CloseTime string        `gorm:"size:5" json:"close_time"`
	Breaks    []BreakPeriod `gorm:"serializer:json" json:"breaks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
