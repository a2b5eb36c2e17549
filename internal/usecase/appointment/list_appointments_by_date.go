package appointment

import (
	"context"
	"fmt"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/availability"
	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/dto"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists one salon day; professionalID 0 means every professional.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	salonID uint,
	professionalID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	salon, err := getSalon(ctx, uc.repo, salonID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(salon.Timezone, date)
	if err != nil {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "date must be YYYY-MM-DD")
	}
	span := availability.DayOf(day)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		salonID,
		professionalID,
		span.Start,
		span.End,
	)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	return dto.AppointmentList(appointments, day.Location()), nil
}
