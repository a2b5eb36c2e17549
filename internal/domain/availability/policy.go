package availability

import "time"

const (
	DefaultSlotIntervalMinutes = 30
	DefaultBufferMinutes       = 0
	DefaultMinNoticeMinutes    = 60
	DefaultMaxFutureDays       = 30
)

// Policy is read once per query and never changes during it.
type Policy struct {
	SlotInterval  time.Duration
	Buffer        time.Duration
	MinNotice     time.Duration
	MaxFutureDays int
}

// NewPolicy converts stored minute values, falling back to defaults for
// values that cannot be used (non-positive interval, negative others).
func NewPolicy(slotIntervalMin, bufferMin, minNoticeMin, maxFutureDays int) Policy {
	if slotIntervalMin <= 0 {
		slotIntervalMin = DefaultSlotIntervalMinutes
	}
	if bufferMin < 0 {
		bufferMin = DefaultBufferMinutes
	}
	if minNoticeMin < 0 {
		minNoticeMin = DefaultMinNoticeMinutes
	}
	if maxFutureDays < 0 {
		maxFutureDays = DefaultMaxFutureDays
	}

	return Policy{
		SlotInterval:  time.Duration(slotIntervalMin) * time.Minute,
		Buffer:        time.Duration(bufferMin) * time.Minute,
		MinNotice:     time.Duration(minNoticeMin) * time.Minute,
		MaxFutureDays: maxFutureDays,
	}
}

func DefaultPolicy() Policy {
	return NewPolicy(DefaultSlotIntervalMinutes, DefaultBufferMinutes, DefaultMinNoticeMinutes, DefaultMaxFutureDays)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayOf returns the local calendar day of date as a half-open interval.
func DayOf(date time.Time) Interval {
	start := StartOfDay(date)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// DateInWindow reports whether date falls in [today, today+MaxFutureDays],
// comparing calendar days in date's location.
func (p Policy) DateInWindow(date, now time.Time) bool {
	day := StartOfDay(date)
	today := StartOfDay(now.In(date.Location()))
	last := today.AddDate(0, 0, p.MaxFutureDays)
	return !day.Before(today) && !day.After(last)
}

// RespectsNotice reports whether start is at least MinNotice after now.
func (p Policy) RespectsNotice(start, now time.Time) bool {
	return !start.Before(now.Add(p.MinNotice))
}
