package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/audit"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/availability"
	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/infra/locker"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/metrics"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/timezone"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/validators"
)

// ======================================================
// USE CASE
// ======================================================

// CreateBooking is the only write path for new appointments. It re-runs the
// full single-slot check at commit time under three guards: a per-professional
// lock, a row lock on the professional inside the transaction, and the unique
// index on (professional, start) for active rows.
type CreateBooking struct {
	repo   domain.Repository
	locker locker.Locker
	audit  *audit.Dispatcher
	log    *zerolog.Logger
	now    func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	locker locker.Locker,
	audit *audit.Dispatcher,
	log *zerolog.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		locker: locker,
		audit:  audit,
		log:    log,
		now:    time.Now,
	}
}

func (uc *CreateBooking) WithClock(now func() time.Time) *CreateBooking {
	uc.now = now
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in domain.CreateBookingInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)

	switch {
	case err == nil:
		metrics.IncBooking("created")
		uc.audit.Dispatch(audit.Event{
			SalonID:  in.SalonID,
			UserID:   in.UserID,
			Action:   audit.ActionBookingCreated,
			Entity:   "appointment",
			EntityID: &ap.ID,
			Metadata: map[string]any{"origin": ap.Origin, "start": ap.StartTime, "professional_id": ap.ProfessionalID},
		})
	case httperr.IsBusiness(err, httperr.CodeSlotUnavailable):
		metrics.IncBooking("conflict")
		uc.log.Info().Err(err).Uint("professional_id", in.ProfessionalID).
			Str("date", in.Date).Str("time", in.Time).Msg("booking rejected")
		uc.audit.Dispatch(audit.Event{
			SalonID:  in.SalonID,
			UserID:   in.UserID,
			Action:   audit.ActionBookingConflict,
			Entity:   "professional",
			EntityID: &in.ProfessionalID,
			Metadata: map[string]any{"date": in.Date, "time": in.Time},
		})
	case httperr.IsBusiness(err, httperr.CodePolicyViolation):
		metrics.IncBooking("policy_violation")
	default:
		if _, ok := httperr.AsBusiness(err); ok {
			metrics.IncBooking("rejected")
		} else {
			metrics.IncBooking("error")
		}
	}

	return ap, err
}

func (uc *CreateBooking) execute(
	ctx context.Context,
	in domain.CreateBookingInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. input
	// --------------------------------------------------
	serviceIDs := uniqueIDs(in.ServiceIDs)
	name := strings.TrimSpace(in.CustomerName)
	phone := validators.NormalizePhone(in.CustomerPhone)

	switch {
	case in.SalonID == 0 || in.ProfessionalID == 0:
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "salon and professional are required")
	case len(serviceIDs) == 0:
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "at least one service is required")
	case name == "":
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "customer name is required")
	case !validators.IsPhoneValid(phone):
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "customer phone is invalid")
	}

	origin := in.Origin
	if origin == "" {
		origin = domain.OriginClient
	}

	salon, err := getSalon(ctx, uc.repo, in.SalonID)
	if err != nil {
		return nil, err
	}

	start, err := timezone.ParseDateTime(salon.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "date must be YYYY-MM-DD and time HH:MM")
	}

	// --------------------------------------------------
	// 2. per-professional commit lock
	// --------------------------------------------------
	unlock, err := uc.locker.Lock(ctx, fmt.Sprintf("professional:%d", in.ProfessionalID))
	if errors.Is(err, locker.ErrLockTimeout) {
		return nil, httperr.ErrBusinessf(httperr.CodeSlotUnavailable, "another booking for this professional is in progress")
	}
	if err != nil {
		return nil, fmt.Errorf("commit lock: %w", err)
	}
	defer unlock()

	// --------------------------------------------------
	// 3. re-check and insert in one transaction
	// --------------------------------------------------
	var created *models.Appointment
	err = uc.repo.Transact(ctx, func(tx domain.Repository) error {
		ap, err := uc.commit(ctx, tx, salon, in, serviceIDs, name, phone, origin, start)
		if err != nil {
			return err
		}
		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (uc *CreateBooking) commit(
	ctx context.Context,
	tx domain.Repository,
	salon *models.Salon,
	in domain.CreateBookingInput,
	serviceIDs []uint,
	name string,
	phone string,
	origin domain.Origin,
	start time.Time,
) (*models.Appointment, error) {

	if _, err := tx.LockProfessional(ctx, in.SalonID, in.ProfessionalID); err != nil {
		return nil, professionalErr(in.ProfessionalID, err)
	}

	services, err := loadServices(ctx, tx, in.SalonID, serviceIDs)
	if err != nil {
		return nil, err
	}

	duration := totalDuration(services)
	if duration <= 0 {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "selected services have no duration")
	}
	candidate := availability.CandidateSlot{Start: start, End: start.Add(duration)}

	// --------------------------------------------------
	// policy: window and minimum notice
	// --------------------------------------------------
	policy := domain.PolicyFromSalon(salon)
	now := uc.now().In(start.Location())

	if !policy.DateInWindow(start, now) {
		return nil, httperr.ErrBusinessf(httperr.CodePolicyViolation, "date is outside the booking window of %d days", policy.MaxFutureDays)
	}
	if !policy.RespectsNotice(start, now) {
		return nil, httperr.ErrBusinessf(httperr.CodePolicyViolation, "bookings need %s notice", policy.MinNotice)
	}

	// --------------------------------------------------
	// availability of this single candidate
	// --------------------------------------------------
	day := availability.DayOf(start)

	hours, err := resolveHours(ctx, tx, uc.log, in.SalonID, in.ProfessionalID, start.Weekday())
	if err != nil {
		return nil, err
	}

	checker := availability.Checker{
		Hours:          hours,
		Date:           start,
		ProfessionalID: in.ProfessionalID,
		Buffer:         policy.Buffer,
		Now:            now,
		MinNotice:      policy.MinNotice,
	}
	if !checker.Fits(candidate) {
		return nil, httperr.ErrBusinessf(httperr.CodeSlotUnavailable, "outside working hours")
	}

	checker.Closures, err = loadClosures(ctx, tx, in.SalonID, in.ProfessionalID, day)
	if err != nil {
		return nil, err
	}
	if availability.HasArrivalOrder(checker.Closures, in.ProfessionalID, day) {
		return nil, httperr.ErrBusinessf(httperr.CodeSlotUnavailable, "day is served by arrival order")
	}

	checker.Booked, err = loadBooked(ctx, tx, in.ProfessionalID, day, policy.Buffer)
	if err != nil {
		return nil, err
	}
	if reason := checker.Reason(candidate); reason != availability.ReasonNone {
		return nil, httperr.ErrBusinessf(httperr.CodeSlotUnavailable, "blocked by %s", reason)
	}

	// --------------------------------------------------
	// customer + appointment
	// --------------------------------------------------
	customer := &models.Customer{
		SalonID:           in.SalonID,
		Name:              name,
		Phone:             phone,
		LastAppointmentAt: &start,
	}
	if err := tx.UpsertCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}

	snapshot := make([]models.AppointmentService, 0, len(services))
	for _, s := range services {
		snapshot = append(snapshot, models.AppointmentService{
			ServiceID:   s.ID,
			Name:        s.Name,
			Price:       s.Price,
			DurationMin: s.DurationMin,
		})
	}

	ap := &models.Appointment{
		Reference:      uuid.NewString(),
		SalonID:        in.SalonID,
		ProfessionalID: in.ProfessionalID,
		CustomerID:     customer.ID,
		StartTime:      candidate.Start,
		EndTime:        candidate.End,
		Status:         string(domain.InitialStatus()),
		Origin:         string(origin),
		CustomerName:   name,
		CustomerPhone:  phone,
		TotalPrice:     totalPrice(services),
		Services:       snapshot,
		Notes:          strings.TrimSpace(in.Notes),
	}

	if err := tx.CreateAppointment(ctx, ap); err != nil {
		return nil, mapCreateErrors(err)
	}

	return ap, nil
}
