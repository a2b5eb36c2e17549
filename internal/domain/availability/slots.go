package availability

import (
	"iter"
	"time"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses half-open intervals: touching ends do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// CandidateSlot is a possible appointment, End = Start + total service duration.
type CandidateSlot = Interval

// Generate enumerates candidate starts from open time, stepping by interval,
// while the whole duration still fits before close. The sequence is lazy and
// can be ranged over any number of times.
func Generate(hours DayHours, duration, interval time.Duration, date time.Time) iter.Seq[CandidateSlot] {
	return func(yield func(CandidateSlot) bool) {
		if !hours.IsOpen || duration <= 0 || interval <= 0 {
			return
		}

		window := hours.Window(date)
		for cursor := window.Start; !cursor.Add(duration).After(window.End); cursor = cursor.Add(interval) {
			if !yield(CandidateSlot{Start: cursor, End: cursor.Add(duration)}) {
				return
			}
		}
	}
}
