package availability

import "time"

// Resolve returns the effective hours for weekday. A professional entry, open
// or closed, replaces the salon entry for the whole day; nothing is merged
// field by field. With no entry on either side the day is closed.
func Resolve(professional, salon WeekCalendar, weekday time.Weekday) DayHours {
	if h, ok := professional.Get(weekday); ok {
		return h
	}
	if h, ok := salon.Get(weekday); ok {
		return h
	}
	return Closed()
}
