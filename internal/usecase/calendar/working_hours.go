package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/audit"
	domain "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/appointment"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

type DayInput struct {
	Weekday int                  `json:"weekday"`
	IsOpen  bool                 `json:"is_open"`
	Open    string               `json:"open_time"`
	Close   string               `json:"close_time"`
	Breaks  []models.BreakPeriod `json:"breaks"`
}

// ======================================================
// GET
// ======================================================

type GetWorkingHours struct {
	repo domain.Repository
}

func NewGetWorkingHours(repo domain.Repository) *GetWorkingHours {
	return &GetWorkingHours{repo: repo}
}

// Execute returns the salon default week when professionalID is 0, otherwise
// that professional's overrides only.
func (uc *GetWorkingHours) Execute(
	ctx context.Context,
	salonID uint,
	professionalID uint,
) ([]models.WorkingHours, error) {

	if professionalID != 0 {
		if err := checkProfessional(ctx, uc.repo, salonID, professionalID); err != nil {
			return nil, err
		}
	}

	rows, err := uc.repo.ListWorkingHours(ctx, salonID, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list working hours: %w", err)
	}
	if rows == nil {
		rows = []models.WorkingHours{}
	}
	return rows, nil
}

// ======================================================
// UPDATE
// ======================================================

type UpdateWorkingHours struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateWorkingHours(repo domain.Repository, audit *audit.Dispatcher) *UpdateWorkingHours {
	return &UpdateWorkingHours{repo: repo, audit: audit}
}

// Execute replaces the whole week of one owner. Weekdays left out of days
// fall back to the salon default (or closed, for the salon itself).
func (uc *UpdateWorkingHours) Execute(
	ctx context.Context,
	salonID uint,
	userID *uint,
	professionalID uint,
	days []DayInput,
) ([]models.WorkingHours, error) {

	if professionalID != 0 {
		if err := checkProfessional(ctx, uc.repo, salonID, professionalID); err != nil {
			return nil, err
		}
	}

	rows, err := buildRows(salonID, professionalID, days)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceWorkingHours(ctx, salonID, professionalID, rows); err != nil {
		return nil, fmt.Errorf("replace working hours: %w", err)
	}

	meta := map[string]any{"days": len(rows)}
	if professionalID != 0 {
		meta["professional_id"] = professionalID
	}
	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   userID,
		Action:   audit.ActionWorkingHoursUpdated,
		Entity:   "working_hours",
		Metadata: meta,
	})

	return rows, nil
}

func buildRows(salonID, professionalID uint, days []DayInput) ([]models.WorkingHours, error) {
	seen := map[int]bool{}
	rows := make([]models.WorkingHours, 0, len(days))

	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "weekday %d out of range", d.Weekday)
		}
		if seen[d.Weekday] {
			return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "weekday %d repeated", d.Weekday)
		}
		seen[d.Weekday] = true

		row := models.WorkingHours{
			SalonID:        salonID,
			ProfessionalID: professionalID,
			Weekday:        d.Weekday,
			IsOpen:         d.IsOpen,
			Breaks:         []models.BreakPeriod{},
		}
		if d.IsOpen {
			row.OpenTime = d.Open
			row.CloseTime = d.Close
			if d.Breaks != nil {
				row.Breaks = d.Breaks
			}
		}

		// the engine reads exactly what is stored, so reject what it could not use
		hours, err := domain.DayHoursFromModel(row)
		if err != nil {
			return nil, httperr.ErrBusinessf(httperr.CodeInvalidInput, "%v", err)
		}
		if hours.IsOpen {
			row.OpenTime = hours.Open.String()
			row.CloseTime = hours.Close.String()
			row.Breaks = make([]models.BreakPeriod, 0, len(hours.Breaks))
			for _, b := range hours.Breaks {
				row.Breaks = append(row.Breaks, models.BreakPeriod{Start: b.Start.String(), End: b.End.String()})
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func checkProfessional(ctx context.Context, repo domain.Repository, salonID, professionalID uint) error {
	_, err := repo.GetProfessional(ctx, salonID, professionalID)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(httperr.CodeProfessionalNotFound)
	}
	if err != nil {
		return fmt.Errorf("load professional: %w", err)
	}
	return nil
}
