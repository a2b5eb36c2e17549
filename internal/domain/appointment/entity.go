package appointment

import (
	"time"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/httperr"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel is a status change; the row stays and stops blocking the slot.
func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

// Complete records the charged price (the booked total when finalPrice is
// nil) and the real end time.
func Complete(ap *models.Appointment, now time.Time, finalPrice *float64) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	price := ap.TotalPrice
	if finalPrice != nil {
		if *finalPrice < 0 {
			return httperr.ErrBusinessf(httperr.CodeInvalidInput, "final_price must not be negative")
		}
		price = *finalPrice
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	ap.RealEndTime = &now
	ap.FinalPrice = &price
	return nil
}
