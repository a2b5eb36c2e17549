package appointment

import "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// BlockingStatuses are the statuses that occupy a professional's time.
func BlockingStatuses() []string {
	return []string{string(StatusConfirmed), string(StatusCompleted)}
}

func (s Status) Blocks() bool {
	return s == StatusConfirmed || s == StatusCompleted
}

type Origin string

const (
	OriginClient Origin = "client"
	OriginPanel  Origin = "panel"
)

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusinessf(httperr.CodeInvalidState, "cannot cancel a %s appointment", current)
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusinessf(httperr.CodeInvalidState, "cannot complete a %s appointment", current)
	}
	return nil
}

func InitialStatus() Status {
	return StatusConfirmed
}
