package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/audit"
	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/validators"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *zerolog.Logger
	now   func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	log *zerolog.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		log:   log,
		now:   time.Now,
	}
}

func (uc *CancelAppointment) WithClock(now func() time.Time) *CancelAppointment {
	uc.now = now
	return uc
}

// Execute cancels from the salon console.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	salonID uint,
	userID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, salonID, appointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	return uc.cancel(ctx, ap, userID, "panel")
}

// ExecuteByCustomer cancels on behalf of the customer, who proves ownership
// with the phone used at booking. A mismatch looks like a missing appointment.
func (uc *CancelAppointment) ExecuteByCustomer(
	ctx context.Context,
	reference string,
	phone string,
) (*models.Appointment, error) {

	normalized := validators.NormalizePhone(phone)
	if reference == "" || normalized == "" {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "reference and phone are required")
	}

	ap, err := uc.repo.GetAppointmentByReference(ctx, reference)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if ap.CustomerPhone != normalized {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}

	return uc.cancel(ctx, ap, nil, "customer")
}

func (uc *CancelAppointment) cancel(
	ctx context.Context,
	ap *models.Appointment,
	userID *uint,
	by string,
) (*models.Appointment, error) {

	if err := domain.Cancel(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	uc.log.Info().Uint("appointment_id", ap.ID).Str("by", by).Msg("appointment cancelled")

	uc.audit.Dispatch(audit.Event{
		SalonID:  ap.SalonID,
		UserID:   userID,
		Action:   audit.ActionAppointmentCancelled,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"by": by},
	})

	return ap, nil
}
