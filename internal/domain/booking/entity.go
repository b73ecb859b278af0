package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition valida a mudança e aplica os timestamps correspondentes.
func Transition(b *models.Booking, to Status, now time.Time, reason string) error {
	from := Status(b.Status)
	if err := CanTransition(from, to); err != nil {
		return err
	}

	b.Status = string(to)
	switch to {
	case StatusConfirmed:
		b.ConfirmedAt = &now
	case StatusCompleted:
		b.CompletedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
		if reason != "" {
			b.CancelReason = reason
		}
	}
	b.UpdatedAt = now
	return nil
}

// Occupied devolve o intervalo que o agendamento bloqueia na agenda.
func Occupied(b *models.Booking) (Interval, bool) {
	start, err := ParseClock(b.StartTime)
	if err != nil {
		return Interval{}, false
	}
	end, err := ParseClock(b.EndTime)
	if err != nil || end <= start {
		end = start.Add(DefaultBookingMinutes)
	}
	return Interval{Start: start, End: end}, true
}
