package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/middleware"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

const DemoSlug = "studio-bela"

// Demo creates a small salon to click around in. Running it twice leaves
// the first copy untouched and returns it.
func Demo(ctx context.Context, db *gorm.DB) (*models.Salon, error) {
	db = db.WithContext(ctx)

	var existing models.Salon
	err := db.Where("slug = ?", DemoSlug).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up demo salon: %w", err)
	}

	salon := models.Salon{
		Name:                     "Studio Bela",
		Slug:                     DemoSlug,
		Phone:                    "1130000000",
		Address:                  "Rua das Flores, 100",
		Timezone:                 "America/Sao_Paulo",
		SlotIntervalMinutes:      30,
		AppointmentBufferMinutes: 10,
		MinNoticeMinutes:         60,
		MaxFutureDays:            30,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&salon).Error; err != nil {
			return fmt.Errorf("salon: %w", err)
		}

		services := []models.Service{
			{SalonID: salon.ID, Name: "Corte feminino", DurationMin: 45, Price: 80, Active: true, Category: "cabelo"},
			{SalonID: salon.ID, Name: "Escova", DurationMin: 30, Price: 50, Active: true, Category: "cabelo"},
			{SalonID: salon.ID, Name: "Manicure", DurationMin: 40, Price: 35, Active: true, Category: "unhas"},
			{SalonID: salon.ID, Name: "Pedicure", DurationMin: 45, Price: 40, Active: true, Category: "unhas"},
		}
		if err := tx.Create(&services).Error; err != nil {
			return fmt.Errorf("services: %w", err)
		}

		professionals := []models.Professional{
			{SalonID: salon.ID, Name: "Carla", Active: true, Services: services[:2]},
			{SalonID: salon.ID, Name: "Juliana", Active: true, Services: services[2:]},
		}
		if err := tx.Create(&professionals).Error; err != nil {
			return fmt.Errorf("professionals: %w", err)
		}

		lunch := []models.BreakPeriod{{Start: "12:00", End: "13:00"}}
		var hours []models.WorkingHours
		for day := time.Sunday; day <= time.Saturday; day++ {
			wh := models.WorkingHours{SalonID: salon.ID, Weekday: int(day), Breaks: []models.BreakPeriod{}}
			switch day {
			case time.Sunday:
			case time.Saturday:
				wh.IsOpen, wh.OpenTime, wh.CloseTime = true, "09:00", "14:00"
			default:
				wh.IsOpen, wh.OpenTime, wh.CloseTime, wh.Breaks = true, "09:00", "18:00", lunch
			}
			hours = append(hours, wh)
		}

		// Juliana starts late on Wednesdays
		hours = append(hours, models.WorkingHours{
			SalonID:        salon.ID,
			ProfessionalID: professionals[1].ID,
			Weekday:        int(time.Wednesday),
			IsOpen:         true,
			OpenTime:       "13:00",
			CloseTime:      "20:00",
			Breaks:         []models.BreakPeriod{{Start: "16:00", End: "16:15"}},
		})

		if err := tx.Create(&hours).Error; err != nil {
			return fmt.Errorf("working hours: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed demo: %w", err)
	}

	return &salon, nil
}

// ConsoleToken signs an owner token the /api/me routes accept for salonID.
func ConsoleToken(secret string, userID, salonID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.ConsoleClaims{
		UserID:  userID,
		SalonID: salonID,
		Role:    middleware.RoleOwner,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
