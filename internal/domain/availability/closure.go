package availability

type ClosureKind string

const (
	ClosureNormal       ClosureKind = "normal"
	ClosureArrivalOrder ClosureKind = "arrival_order"
)

func (k ClosureKind) Valid() bool {
	return k == ClosureNormal || k == ClosureArrivalOrder
}

// ClosurePeriod blocks booking for one professional, or for the whole salon
// when SalonWide is set.
type ClosurePeriod struct {
	SalonWide      bool
	ProfessionalID uint
	Period         Interval
	Kind           ClosureKind
}

func (c ClosurePeriod) AppliesTo(professionalID uint) bool {
	return c.SalonWide || c.ProfessionalID == professionalID
}

// HasArrivalOrder reports whether any applicable closure turns the span into
// a walk-in day.
func HasArrivalOrder(closures []ClosurePeriod, professionalID uint, span Interval) bool {
	for _, c := range closures {
		if c.Kind == ClosureArrivalOrder && c.AppliesTo(professionalID) && c.Period.Overlaps(span) {
			return true
		}
	}
	return false
}
