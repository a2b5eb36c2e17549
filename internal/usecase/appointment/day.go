package appointment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/availability"
	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

// ======================================================
// Lookups shared by the availability query and the commit
// ======================================================

func getSalon(ctx context.Context, repo domain.Repository, id uint) (*models.Salon, error) {
	salon, err := repo.GetSalonByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeSalonNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load salon %d: %w", id, err)
	}
	return salon, nil
}

func professionalErr(id uint, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(httperr.CodeProfessionalNotFound)
	}
	return fmt.Errorf("load professional %d: %w", id, err)
}

// uniqueIDs drops zeros and repeats, keeping first-seen order.
func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != 0 && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// loadServices fails with service_not_found unless every id resolves to an
// active service of the salon.
func loadServices(ctx context.Context, repo domain.Repository, salonID uint, ids []uint) ([]models.Service, error) {
	services, err := repo.ListServicesByIDs(ctx, salonID, ids)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}

	for _, id := range ids {
		if !slices.ContainsFunc(services, func(s models.Service) bool { return s.ID == id }) {
			return nil, httperr.ErrBusinessf(httperr.CodeServiceNotFound, "service %d not found", id)
		}
	}
	return services, nil
}

func totalDuration(services []models.Service) time.Duration {
	var minutes int
	for _, s := range services {
		minutes += s.DurationMin
	}
	return time.Duration(minutes) * time.Minute
}

func totalPrice(services []models.Service) float64 {
	var sum float64
	for _, s := range services {
		sum += s.Price
	}
	return math.Round(sum*100) / 100
}

// resolveHours loads both calendars and applies professional-over-salon
// precedence for the weekday. Malformed stored days are logged and count as
// closed.
func resolveHours(
	ctx context.Context,
	repo domain.Repository,
	log *zerolog.Logger,
	salonID uint,
	professionalID uint,
	weekday time.Weekday,
) (availability.DayHours, error) {

	salonRows, err := repo.ListWorkingHours(ctx, salonID, 0)
	if err != nil {
		return availability.DayHours{}, fmt.Errorf("load salon hours: %w", err)
	}
	professionalRows, err := repo.ListWorkingHours(ctx, salonID, professionalID)
	if err != nil {
		return availability.DayHours{}, fmt.Errorf("load professional hours: %w", err)
	}

	salonWeek, bad := domain.WeekFromModels(salonRows)
	for _, e := range bad {
		log.Warn().Err(e).Uint("salon_id", salonID).Msg("malformed salon working hours, day treated as closed")
	}
	professionalWeek, bad := domain.WeekFromModels(professionalRows)
	for _, e := range bad {
		log.Warn().Err(e).Uint("salon_id", salonID).Uint("professional_id", professionalID).
			Msg("malformed professional working hours, day treated as closed")
	}

	return availability.Resolve(professionalWeek, salonWeek, weekday), nil
}

func loadClosures(
	ctx context.Context,
	repo domain.Repository,
	salonID uint,
	professionalID uint,
	day availability.Interval,
) ([]availability.ClosurePeriod, error) {

	rows, err := repo.ListClosures(ctx, salonID, professionalID, day.Start, day.End)
	if err != nil {
		return nil, fmt.Errorf("load closures: %w", err)
	}

	out := make([]availability.ClosurePeriod, 0, len(rows))
	for _, c := range rows {
		out = append(out, domain.ClosureFromModel(c))
	}
	return out, nil
}

// loadBooked reaches back by the buffer so a booking ending just before the
// day still pushes its buffer into it.
func loadBooked(
	ctx context.Context,
	repo domain.Repository,
	professionalID uint,
	day availability.Interval,
	buffer time.Duration,
) ([]availability.Interval, error) {

	rows, err := repo.ListBlockingAppointments(ctx, professionalID, day.Start.Add(-buffer), day.End)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	out := make([]availability.Interval, 0, len(rows))
	for _, ap := range rows {
		out = append(out, availability.Interval{Start: ap.StartTime, End: ap.EndTime})
	}
	return out, nil
}

// mapCreateErrors turns storage-level slot collisions into slot_unavailable.
func mapCreateErrors(err error) error {
	if err == nil {
		return nil
	}
	if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
		return httperr.ErrBusinessf(httperr.CodeSlotUnavailable, "slot was taken concurrently")
	}
	return err
}
