package availability

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed in minutes since midnight.
type TimeOfDay int

const (
	minutesPerDay = 24 * 60
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// ParseTimeOfDay parses "HH:MM". "24:00" is accepted so a day can close at midnight.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	if hour < 0 || minute < 0 || minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	return TimeOfDay(hour*60 + minute), nil
}

func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On places the time of day on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, int(t)/60, int(t)%60, 0, 0, date.Location())
}

type Break struct {
	Start TimeOfDay
	End   TimeOfDay
}

// DayHours is one weekday of a WeekCalendar. Open, Close and Breaks are
// meaningless when IsOpen is false.
type DayHours struct {
	IsOpen bool
	Open   TimeOfDay
	Close  TimeOfDay
	Breaks []Break
}

func Closed() DayHours {
	return DayHours{}
}

var ErrMalformedHours = errors.New("malformed working hours")

// Validate checks the stored-data invariants: open before close, breaks inside
// [open, close) and not overlapping each other.
func (d DayHours) Validate() error {
	if !d.IsOpen {
		return nil
	}

	if d.Open < 0 || d.Close > minutesPerDay || d.Open >= d.Close {
		return fmt.Errorf("%w: open %s close %s", ErrMalformedHours, d.Open, d.Close)
	}

	breaks := make([]Break, len(d.Breaks))
	copy(breaks, d.Breaks)
	sort.Slice(breaks, func(i, j int) bool { return breaks[i].Start < breaks[j].Start })

	for i, b := range breaks {
		if b.Start >= b.End {
			return fmt.Errorf("%w: break %s-%s is empty", ErrMalformedHours, b.Start, b.End)
		}
		if b.Start < d.Open || b.End > d.Close {
			return fmt.Errorf("%w: break %s-%s outside %s-%s", ErrMalformedHours, b.Start, b.End, d.Open, d.Close)
		}
		if i > 0 && b.Start < breaks[i-1].End {
			return fmt.Errorf("%w: breaks %s-%s and %s-%s overlap",
				ErrMalformedHours, breaks[i-1].Start, breaks[i-1].End, b.Start, b.End)
		}
	}

	return nil
}

// Window returns the open/close instants of the day on date.
func (d DayHours) Window(date time.Time) Interval {
	return Interval{Start: d.Open.On(date), End: d.Close.On(date)}
}

// WeekCalendar holds at most one entry per weekday, indexed by time.Weekday.
// A nil entry means the owner declared nothing for that day.
type WeekCalendar [7]*DayHours

func (w *WeekCalendar) Set(day time.Weekday, hours DayHours) {
	h := hours
	w[day] = &h
}

func (w WeekCalendar) Get(day time.Weekday) (DayHours, bool) {
	if day < time.Sunday || day > time.Saturday || w[day] == nil {
		return DayHours{}, false
	}
	return *w[day], true
}
