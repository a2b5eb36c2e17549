package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/dto"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/validators"
)

// ListCustomerAppointments backs the customer self-service page: upcoming
// appointments booked with a phone number, across salons.
type ListCustomerAppointments struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListCustomerAppointments(repo domain.Repository) *ListCustomerAppointments {
	return &ListCustomerAppointments{repo: repo, now: time.Now}
}

func (uc *ListCustomerAppointments) WithClock(now func() time.Time) *ListCustomerAppointments {
	uc.now = now
	return uc
}

func (uc *ListCustomerAppointments) Execute(
	ctx context.Context,
	phone string,
) ([]dto.AppointmentListDTO, error) {

	normalized := validators.NormalizePhone(phone)
	if !validators.IsPhoneValid(normalized) {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "phone is invalid")
	}

	apps, err := uc.repo.ListAppointmentsByPhone(ctx, normalized, uc.now())
	if err != nil {
		return nil, fmt.Errorf("list appointments by phone: %w", err)
	}

	return dto.AppointmentList(apps, time.UTC), nil
}
