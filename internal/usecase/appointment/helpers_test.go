package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/infra/locker"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/infra/repository/repotest"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/logging"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/timezone"
)

const testDate = "2026-03-02" // Monday

type fixture struct {
	repo         *repotest.Repository
	salon        *models.Salon
	professional *models.Professional
	cut          *models.Service
	brush        *models.Service
	loc          *time.Location
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := repotest.New()

	salon := &models.Salon{
		Name:                "Studio Bela",
		Slug:                "studio-bela",
		Timezone:            "America/Sao_Paulo",
		SlotIntervalMinutes: 30,
		MinNoticeMinutes:    60,
		MaxFutureDays:       30,
	}
	repo.PutSalon(salon)

	professional := &models.Professional{SalonID: salon.ID, Name: "Carla", Active: true}
	repo.PutProfessional(professional)

	cut := &models.Service{SalonID: salon.ID, Name: "Corte", DurationMin: 30, Price: 50, Active: true}
	brush := &models.Service{SalonID: salon.ID, Name: "Escova", DurationMin: 15, Price: 30.5, Active: true}
	repo.PutService(cut)
	repo.PutService(brush)

	require.NoError(t, repo.ReplaceWorkingHours(context.Background(), salon.ID, 0, []models.WorkingHours{
		{Weekday: int(time.Monday), IsOpen: true, OpenTime: "09:00", CloseTime: "18:00",
			Breaks: []models.BreakPeriod{{Start: "12:00", End: "13:00"}}},
		{Weekday: int(time.Sunday), IsOpen: false},
	}))

	loc := timezone.Location(salon.Timezone)

	return &fixture{
		repo:         repo,
		salon:        salon,
		professional: professional,
		cut:          cut,
		brush:        brush,
		loc:          loc,
		now:          time.Date(2026, time.March, 2, 8, 0, 0, 0, loc),
	}
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) at(hour, min int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, 0, 0, f.loc)
}

func (f *fixture) availability() *GetAvailability {
	return NewGetAvailability(f.repo, logging.Nop()).WithClock(f.clock)
}

func (f *fixture) booking() *CreateBooking {
	return NewCreateBooking(f.repo, locker.NewLocalLocker(5*time.Second), nil, logging.Nop()).WithClock(f.clock)
}

func (f *fixture) query(serviceIDs ...uint) domain.AvailabilityInput {
	return domain.AvailabilityInput{
		SalonID:        f.salon.ID,
		ProfessionalID: f.professional.ID,
		Date:           testDate,
		ServiceIDs:     serviceIDs,
	}
}

func (f *fixture) book(clock string, serviceIDs ...uint) domain.CreateBookingInput {
	return domain.CreateBookingInput{
		SalonID:        f.salon.ID,
		ProfessionalID: f.professional.ID,
		Date:           testDate,
		Time:           clock,
		ServiceIDs:     serviceIDs,
		CustomerName:   "Ana",
		CustomerPhone:  "(11) 98888-7777",
	}
}

// seedBooking stores an appointment directly, bypassing the committer.
func (f *fixture) seedBooking(t *testing.T, start time.Time, minutes int, status domain.Status) *models.Appointment {
	t.Helper()

	ap := &models.Appointment{
		Reference:      start.Format(time.RFC3339) + string(status),
		SalonID:        f.salon.ID,
		ProfessionalID: f.professional.ID,
		StartTime:      start,
		EndTime:        start.Add(time.Duration(minutes) * time.Minute),
		Status:         string(status),
		CustomerPhone:  "11900000000",
	}
	require.NoError(t, f.repo.CreateAppointment(context.Background(), ap))
	return ap
}

func (f *fixture) setSalon(mutate func(s *models.Salon)) {
	mutate(f.salon)
	f.repo.PutSalon(f.salon)
}

type timeoutLocker struct{}

func (timeoutLocker) Lock(context.Context, string) (locker.Unlock, error) {
	return nil, locker.ErrLockTimeout
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (locker.Unlock, error) {
	return func() {}, nil
}
