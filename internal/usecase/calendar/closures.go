package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/audit"
	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/availability"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/timezone"
)

// ClosureInput is expressed in salon wall time. Empty times mean the whole
// day: StartTime defaults to 00:00 and EndTime to the end of EndDate.
type ClosureInput struct {
	ProfessionalID *uint  `json:"professional_id"`
	StartDate      string `json:"start_date"`
	StartTime      string `json:"start_time"`
	EndDate        string `json:"end_date"`
	EndTime        string `json:"end_time"`
	Kind           string `json:"kind"`
	Reason         string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

type CreateClosure struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateClosure(repo domain.Repository, audit *audit.Dispatcher) *CreateClosure {
	return &CreateClosure{repo: repo, audit: audit}
}

func (uc *CreateClosure) Execute(
	ctx context.Context,
	salonID uint,
	userID *uint,
	in ClosureInput,
) (*models.Closure, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeSalonNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load salon: %w", err)
	}

	kind := availability.ClosureKind(strings.TrimSpace(in.Kind))
	if kind == "" {
		kind = availability.ClosureNormal
	}
	if !kind.Valid() {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "kind must be normal or arrival_order")
	}

	if in.ProfessionalID != nil {
		if *in.ProfessionalID == 0 {
			in.ProfessionalID = nil
		} else if err := checkProfessional(ctx, uc.repo, salonID, *in.ProfessionalID); err != nil {
			return nil, err
		}
	}

	start, end, err := closureBounds(salon.Timezone, in)
	if err != nil {
		return nil, err
	}

	c := &models.Closure{
		SalonID:        salonID,
		ProfessionalID: in.ProfessionalID,
		StartTime:      start,
		EndTime:        end,
		Kind:           string(kind),
		Reason:         strings.TrimSpace(in.Reason),
	}
	if err := uc.repo.CreateClosure(ctx, c); err != nil {
		return nil, fmt.Errorf("create closure: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   userID,
		Action:   audit.ActionClosureCreated,
		Entity:   "closure",
		EntityID: &c.ID,
		Metadata: map[string]any{"kind": c.Kind, "start": start, "end": end},
	})

	return c, nil
}

func closureBounds(tz string, in ClosureInput) (time.Time, time.Time, error) {
	endDate := in.EndDate
	if endDate == "" {
		endDate = in.StartDate
	}

	startClock := in.StartTime
	if startClock == "" {
		startClock = "00:00"
	}
	start, err := timezone.ParseDateTime(tz, in.StartDate, startClock)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.ErrBusinessf(httperr.CodeInvalidInput, "start must be YYYY-MM-DD and HH:MM")
	}

	var end time.Time
	if in.EndTime == "" {
		day, err := timezone.ParseDate(tz, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.ErrBusinessf(httperr.CodeInvalidInput, "end must be YYYY-MM-DD")
		}
		end = availability.DayOf(day).End
	} else {
		end, err = timezone.ParseDateTime(tz, endDate, in.EndTime)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.ErrBusinessf(httperr.CodeInvalidInput, "end must be YYYY-MM-DD and HH:MM")
		}
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, httperr.ErrBusinessf(httperr.CodeInvalidInput, "closure must end after it starts")
	}
	return start, end, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteClosure struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteClosure(repo domain.Repository, audit *audit.Dispatcher) *DeleteClosure {
	return &DeleteClosure{repo: repo, audit: audit}
}

func (uc *DeleteClosure) Execute(
	ctx context.Context,
	salonID uint,
	userID *uint,
	closureID uint,
) error {

	err := uc.repo.DeleteClosure(ctx, salonID, closureID)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(httperr.CodeClosureNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete closure: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   userID,
		Action:   audit.ActionClosureDeleted,
		Entity:   "closure",
		EntityID: &closureID,
	})
	return nil
}

// ======================================================
// LIST
// ======================================================

type ListClosures struct {
	repo domain.Repository
}

func NewListClosures(repo domain.Repository) *ListClosures {
	return &ListClosures{repo: repo}
}

// Execute lists every closure overlapping [from, to], both dates inclusive
// and read in the salon timezone.
func (uc *ListClosures) Execute(
	ctx context.Context,
	salonID uint,
	from string,
	to string,
) ([]models.Closure, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeSalonNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load salon: %w", err)
	}

	start, err := timezone.ParseDate(salon.Timezone, from)
	if err != nil {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "from must be YYYY-MM-DD")
	}
	last, err := timezone.ParseDate(salon.Timezone, to)
	if err != nil {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "to must be YYYY-MM-DD")
	}
	if last.Before(start) {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "to must not be before from")
	}

	closures, err := uc.repo.ListClosures(ctx, salonID, 0, start, availability.DayOf(last).End)
	if err != nil {
		return nil, fmt.Errorf("list closures: %w", err)
	}
	if closures == nil {
		closures = []models.Closure{}
	}
	return closures, nil
}
