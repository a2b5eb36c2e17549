package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/availability"
	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/metrics"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/timezone"
)

// GetAvailability is read-only and takes no locks; a slot it shows may be
// gone by the time it is booked, which CreateBooking detects.
type GetAvailability struct {
	repo domain.Repository
	log  *zerolog.Logger
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository, log *zerolog.Logger) *GetAvailability {
	return &GetAvailability{repo: repo, log: log, now: time.Now}
}

func (uc *GetAvailability) WithClock(now func() time.Time) *GetAvailability {
	uc.now = now
	return uc
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (availability.SlotResult, error) {

	result, err := uc.execute(ctx, in)
	switch {
	case err != nil:
		metrics.IncAvailabilityQuery("error")
	case result.IsArrivalOrder():
		metrics.IncAvailabilityQuery("arrival_order")
	case len(result.Slots) == 0:
		metrics.IncAvailabilityQuery("empty")
	default:
		metrics.IncAvailabilityQuery("slots")
	}
	return result, err
}

func (uc *GetAvailability) execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (availability.SlotResult, error) {

	serviceIDs := uniqueIDs(in.ServiceIDs)
	if in.SalonID == 0 || in.ProfessionalID == 0 || in.Date == "" || len(serviceIDs) == 0 {
		return availability.SlotResult{}, httperr.ErrBusinessf(httperr.CodeInvalidInput, "professional, date and services are required")
	}

	salon, err := getSalon(ctx, uc.repo, in.SalonID)
	if err != nil {
		return availability.SlotResult{}, err
	}

	if _, err := uc.repo.GetProfessional(ctx, in.SalonID, in.ProfessionalID); err != nil {
		return availability.SlotResult{}, professionalErr(in.ProfessionalID, err)
	}

	date, err := timezone.ParseDate(salon.Timezone, in.Date)
	if err != nil {
		return availability.SlotResult{}, httperr.ErrBusinessf(httperr.CodeInvalidInput, "date must be YYYY-MM-DD")
	}

	policy := domain.PolicyFromSalon(salon)
	now := uc.now().In(date.Location())
	day := availability.DayOf(date)

	// --------------------------------------------------
	// (a) booking window
	// --------------------------------------------------
	if !policy.DateInWindow(date, now) {
		return availability.NoSlots(), nil
	}

	// --------------------------------------------------
	// (b) effective hours
	// --------------------------------------------------
	hours, err := resolveHours(ctx, uc.repo, uc.log, in.SalonID, in.ProfessionalID, date.Weekday())
	if err != nil {
		return availability.SlotResult{}, err
	}
	if !hours.IsOpen {
		return availability.NoSlots(), nil
	}

	// --------------------------------------------------
	// (c) total duration
	// --------------------------------------------------
	services, err := loadServices(ctx, uc.repo, in.SalonID, serviceIDs)
	if err != nil {
		return availability.SlotResult{}, err
	}
	duration := totalDuration(services)

	// --------------------------------------------------
	// (d) closures, arrival order wins over everything
	// --------------------------------------------------
	closures, err := loadClosures(ctx, uc.repo, in.SalonID, in.ProfessionalID, day)
	if err != nil {
		return availability.SlotResult{}, err
	}
	if availability.HasArrivalOrder(closures, in.ProfessionalID, day) {
		return availability.ArrivalOrder(), nil
	}

	// --------------------------------------------------
	// (e) booked intervals
	// --------------------------------------------------
	booked, err := loadBooked(ctx, uc.repo, in.ProfessionalID, day, policy.Buffer)
	if err != nil {
		return availability.SlotResult{}, err
	}

	// --------------------------------------------------
	// (f) generate and filter
	// --------------------------------------------------
	checker := availability.Checker{
		Hours:          hours,
		Date:           date,
		ProfessionalID: in.ProfessionalID,
		Closures:       closures,
		Booked:         booked,
		Buffer:         policy.Buffer,
		Now:            now,
		MinNotice:      policy.MinNotice,
	}

	starts := availability.Filter(hours, duration, policy, checker, func(r availability.BlockReason) {
		metrics.IncSlotBlocked(string(r))
	})

	return availability.SlotsOf(starts), nil
}
