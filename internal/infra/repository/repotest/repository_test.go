package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

func utc(hour, min int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, 0, 0, time.UTC)
}

func appointmentAt(professionalID uint, start time.Time, minutes int) *models.Appointment {
	return &models.Appointment{
		SalonID:        1,
		ProfessionalID: professionalID,
		StartTime:      start,
		EndTime:        start.Add(time.Duration(minutes) * time.Minute),
		Status:         string(domain.StatusConfirmed),
		Origin:         string(domain.OriginClient),
		CustomerPhone:  "11988887777",
	}
}

func TestCreateAppointment_MatchesIndex(t *testing.T) {
	repo := New()
	ctx := context.Background()

	first := appointmentAt(3, utc(10, 0), 30)
	require.NoError(t, repo.CreateAppointment(ctx, first))

	err := repo.CreateAppointment(ctx, appointmentAt(3, utc(10, 0), 30))
	assert.True(t, httperr.IsUniqueViolation(err))

	first.Status = string(domain.StatusCancelled)
	require.NoError(t, repo.UpdateAppointment(ctx, first))
	require.NoError(t, repo.CreateAppointment(ctx, appointmentAt(3, utc(10, 0), 30)))

	blocking, err := repo.ListBlockingAppointments(ctx, 3, utc(0, 0), utc(23, 0))
	require.NoError(t, err)
	assert.Len(t, blocking, 1)
}

func TestTransact_RollsBackOwnWrites(t *testing.T) {
	repo := New()
	ctx := context.Background()

	kept := appointmentAt(3, utc(9, 0), 30)
	require.NoError(t, repo.CreateAppointment(ctx, kept))

	boom := errors.New("boom")
	err := repo.Transact(ctx, func(tx domain.Repository) error {
		require.NoError(t, tx.UpsertCustomer(ctx, &models.Customer{SalonID: 1, Name: "Bia", Phone: "11977776666"}))
		require.NoError(t, tx.CreateAppointment(ctx, appointmentAt(3, utc(10, 0), 30)))
		require.NoError(t, tx.CreateClosure(ctx, &models.Closure{SalonID: 1, StartTime: utc(14, 0), EndTime: utc(15, 0)}))

		cancelled := *kept
		cancelled.Status = string(domain.StatusCancelled)
		require.NoError(t, tx.UpdateAppointment(ctx, &cancelled))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.FindCustomerByPhone(ctx, 1, "11977776666")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	blocking, err := repo.ListBlockingAppointments(ctx, 3, utc(0, 0), utc(23, 0))
	require.NoError(t, err)
	require.Len(t, blocking, 1)
	assert.Equal(t, kept.ID, blocking[0].ID)

	closures, err := repo.ListClosures(ctx, 1, 0, utc(0, 0), utc(23, 0))
	require.NoError(t, err)
	assert.Empty(t, closures)
}

func TestTransact_KeepsWritesMadeOutsideIt(t *testing.T) {
	repo := New()
	ctx := context.Background()

	err := repo.Transact(ctx, func(tx domain.Repository) error {
		require.NoError(t, tx.UpsertCustomer(ctx, &models.Customer{SalonID: 1, Name: "Bia", Phone: "11977776666"}))

		// lands on the shared store while the transaction is open
		require.NoError(t, repo.CreateClosure(ctx, &models.Closure{SalonID: 1, StartTime: utc(14, 0), EndTime: utc(15, 0)}))
		require.NoError(t, repo.ReplaceWorkingHours(ctx, 1, 0, []models.WorkingHours{
			{Weekday: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
		}))
		return errors.New("boom")
	})
	require.Error(t, err)

	closures, err := repo.ListClosures(ctx, 1, 0, utc(0, 0), utc(23, 0))
	require.NoError(t, err)
	assert.Len(t, closures, 1)

	hours, err := repo.ListWorkingHours(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, hours, 1)

	_, err = repo.FindCustomerByPhone(ctx, 1, "11977776666")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransact_RestoresReplacedWorkingHours(t *testing.T) {
	repo := New()
	ctx := context.Background()

	require.NoError(t, repo.ReplaceWorkingHours(ctx, 1, 0, []models.WorkingHours{
		{Weekday: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
		{Weekday: 2, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
	}))

	err := repo.Transact(ctx, func(tx domain.Repository) error {
		require.NoError(t, tx.ReplaceWorkingHours(ctx, 1, 0, []models.WorkingHours{{Weekday: 0, IsOpen: false}}))
		return errors.New("boom")
	})
	require.Error(t, err)

	hours, err := repo.ListWorkingHours(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, 1, hours[0].Weekday)
	assert.Equal(t, 2, hours[1].Weekday)
}

func TestUpsertCustomer(t *testing.T) {
	repo := New()
	ctx := context.Background()

	later, earlier := utc(15, 0), utc(9, 0)

	a := &models.Customer{SalonID: 1, Name: "Ana", Phone: "11988887777", LastAppointmentAt: &later}
	require.NoError(t, repo.UpsertCustomer(ctx, a))
	b := &models.Customer{SalonID: 1, Name: "Ana Paula", Phone: "11988887777", LastAppointmentAt: &earlier}
	require.NoError(t, repo.UpsertCustomer(ctx, b))

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Ana Paula", b.Name)
	require.NotNil(t, b.LastAppointmentAt)
	assert.True(t, b.LastAppointmentAt.Equal(later), "an earlier booking does not move the last visit back")
}
