package availability

import "time"

type ResultKind int

const (
	KindSlots ResultKind = iota
	KindArrivalOrder
)

// SlotResult is either an ordered list of start times or the arrival-order
// marker, in which case Slots is always empty.
type SlotResult struct {
	Kind  ResultKind
	Slots []time.Time
}

func SlotsOf(starts []time.Time) SlotResult {
	if starts == nil {
		starts = []time.Time{}
	}
	return SlotResult{Kind: KindSlots, Slots: starts}
}

func NoSlots() SlotResult {
	return SlotsOf(nil)
}

func ArrivalOrder() SlotResult {
	return SlotResult{Kind: KindArrivalOrder, Slots: []time.Time{}}
}

func (r SlotResult) IsArrivalOrder() bool {
	return r.Kind == KindArrivalOrder
}

// Times renders the slots as HH:MM in their own location.
func (r SlotResult) Times() []string {
	out := make([]string, 0, len(r.Slots))
	for _, s := range r.Slots {
		out = append(out, s.Format("15:04"))
	}
	return out
}

// Filter runs every generated candidate through the checker, keeping survivors
// in generation order. onBlocked, when set, sees every rejected candidate.
func Filter(hours DayHours, duration time.Duration, policy Policy, checker Checker, onBlocked func(BlockReason)) []time.Time {
	starts := []time.Time{}
	for slot := range Generate(hours, duration, policy.SlotInterval, checker.Date) {
		reason := checker.Reason(slot)
		if reason == ReasonNone {
			starts = append(starts, slot.Start)
			continue
		}
		if onBlocked != nil {
			onBlocked(reason)
		}
	}
	return starts
}
