package appointment

import (
	"fmt"
	"slices"
	"time"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/domain/availability"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

// DayHoursFromModel converts a stored row into engine hours with breaks in
// start order. Closed rows convert without looking at their times.
func DayHoursFromModel(wh models.WorkingHours) (availability.DayHours, error) {
	if !wh.IsOpen {
		return availability.Closed(), nil
	}

	open, err := availability.ParseTimeOfDay(wh.OpenTime)
	if err != nil {
		return availability.DayHours{}, fmt.Errorf("weekday %d open: %w", wh.Weekday, err)
	}
	closing, err := availability.ParseTimeOfDay(wh.CloseTime)
	if err != nil {
		return availability.DayHours{}, fmt.Errorf("weekday %d close: %w", wh.Weekday, err)
	}

	hours := availability.DayHours{IsOpen: true, Open: open, Close: closing}
	for _, b := range wh.Breaks {
		start, err := availability.ParseTimeOfDay(b.Start)
		if err != nil {
			return availability.DayHours{}, fmt.Errorf("weekday %d break: %w", wh.Weekday, err)
		}
		end, err := availability.ParseTimeOfDay(b.End)
		if err != nil {
			return availability.DayHours{}, fmt.Errorf("weekday %d break: %w", wh.Weekday, err)
		}
		hours.Breaks = append(hours.Breaks, availability.Break{Start: start, End: end})
	}
	slices.SortFunc(hours.Breaks, func(a, b availability.Break) int { return int(a.Start - b.Start) })

	if err := hours.Validate(); err != nil {
		return availability.DayHours{}, fmt.Errorf("weekday %d: %w", wh.Weekday, err)
	}
	return hours, nil
}

// WeekFromModels builds a calendar from stored rows. A row that cannot be
// converted is reported in bad and its weekday is set closed.
func WeekFromModels(rows []models.WorkingHours) (week availability.WeekCalendar, bad []error) {
	for _, row := range rows {
		if row.Weekday < 0 || row.Weekday > 6 {
			bad = append(bad, fmt.Errorf("weekday %d out of range", row.Weekday))
			continue
		}

		hours, err := DayHoursFromModel(row)
		if err != nil {
			bad = append(bad, err)
			hours = availability.Closed()
		}
		week.Set(time.Weekday(row.Weekday), hours)
	}
	return week, bad
}

func ClosureFromModel(c models.Closure) availability.ClosurePeriod {
	period := availability.ClosurePeriod{
		SalonWide: c.ProfessionalID == nil,
		Period:    availability.Interval{Start: c.StartTime, End: c.EndTime},
		Kind:      availability.ClosureKind(c.Kind),
	}
	if c.ProfessionalID != nil {
		period.ProfessionalID = *c.ProfessionalID
	}
	if !period.Kind.Valid() {
		period.Kind = availability.ClosureNormal
	}
	return period
}

func PolicyFromSalon(s *models.Salon) availability.Policy {
	return availability.NewPolicy(
		s.SlotIntervalMinutes,
		s.AppointmentBufferMinutes,
		s.MinNoticeMinutes,
		s.MaxFutureDays,
	)
}
