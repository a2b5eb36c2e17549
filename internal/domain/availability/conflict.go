package availability

import "time"

type BlockReason string

const (
	ReasonNone    BlockReason = ""
	ReasonNotice  BlockReason = "min_notice"
	ReasonBreak   BlockReason = "break"
	ReasonClosure BlockReason = "closure"
	ReasonBooking BlockReason = "booking"
)

// Checker tests candidates of one professional on one day. Booked must only
// hold confirmed or completed appointments of that professional.
type Checker struct {
	Hours          DayHours
	Date           time.Time
	ProfessionalID uint
	Closures       []ClosurePeriod
	Booked         []Interval
	Buffer         time.Duration
	Now            time.Time
	MinNotice      time.Duration
}

func (c Checker) IsBlocked(slot CandidateSlot) bool {
	return c.Reason(slot) != ReasonNone
}

// Reason reports the first rule that blocks slot, in the order notice, break,
// closure, booking.
func (c Checker) Reason(slot CandidateSlot) BlockReason {
	if slot.Start.Before(c.Now.Add(c.MinNotice)) {
		return ReasonNotice
	}

	for _, b := range c.Hours.Breaks {
		if slot.Overlaps(Interval{Start: b.Start.On(c.Date), End: b.End.On(c.Date)}) {
			return ReasonBreak
		}
	}

	for _, cl := range c.Closures {
		if cl.AppliesTo(c.ProfessionalID) && slot.Overlaps(cl.Period) {
			return ReasonClosure
		}
	}

	// buffer only trails a booking, it is never added in front of one
	for _, booked := range c.Booked {
		if slot.Overlaps(Interval{Start: booked.Start, End: booked.End.Add(c.Buffer)}) {
			return ReasonBooking
		}
	}

	return ReasonNone
}

// Fits reports whether slot lies entirely inside the open hours of the day.
func (c Checker) Fits(slot CandidateSlot) bool {
	if !c.Hours.IsOpen || !slot.Start.Before(slot.End) {
		return false
	}
	w := c.Hours.Window(c.Date)
	return !slot.Start.Before(w.Start) && !slot.End.After(w.End)
}
