package models

import "time"

// Salon is the tenant. Policy columns feed every availability query.
type Salon struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string `gorm:"size:20" json:"phone"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`

	SlotIntervalMinutes      int `gorm:"default:30" json:"slot_interval_minutes"`
	AppointmentBufferMinutes int `gorm:"default:0" json:"appointment_buffer_minutes"`
	MinNoticeMinutes         int `gorm:"default:60" json:"min_notice_minutes"`
	MaxFutureDays            int `gorm:"default:30" json:"max_future_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
