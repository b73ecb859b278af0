package booking

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// RescheduleInput: campos nil ficam como estão.
type RescheduleInput struct {
	Actor     domain.Actor
	BookingID string

	Date   *string
	Time   *string
	Notes  *string
	Reason string
}

type RescheduleBooking struct {
	d Deps
}

func NewRescheduleBooking(d Deps) *RescheduleBooking {
	return &RescheduleBooking{d: d}
}

func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Booking, error) {

	if in.Date == nil && in.Time == nil && in.Notes == nil {
		return nil, httperr.NewBadRequest("nothing_to_update", "provide date, time or notes")
	}

	current, err := loadBooking(ctx, uc.d.Repo, in.BookingID)
	if err != nil {
		return nil, err
	}
	if err := in.Actor.AuthorizeEdit(current); err != nil {
		return nil, err
	}
	if !domain.Status(current.Status).Editable() {
		return nil, httperr.NewBadRequest("booking_not_editable", "completed or cancelled bookings cannot be changed")
	}

	// --------------------------------------------------
	// Só notas: sem disponibilidade
	// --------------------------------------------------
	if in.Date == nil && in.Time == nil {
		current.Notes = strings.TrimSpace(*in.Notes)
		current.UpdatedAt = uc.d.Clock.Now()
		if err := uc.d.Repo.UpdateBooking(ctx, current); err != nil {
			return nil, httperr.Database("update booking", err)
		}
		uc.d.appendHistory(ctx, &models.BookingHistory{
			BookingID:      current.ID,
			Action:         "UPDATED",
			PreviousStatus: current.Status,
			NewStatus:      current.Status,
			Note:           "notes updated",
			PerformedBy:    in.Actor.ID,
		})
		return uc.d.detailed(ctx, current.ID)
	}

	// --------------------------------------------------
	// Data / hora
	// --------------------------------------------------
	dateStr := current.Date().Format("2006-01-02")
	if in.Date != nil {
		dateStr = *in.Date
	}
	timeStr := current.StartTime
	if in.Time != nil {
		timeStr = *in.Time
	}

	date, start, err := uc.d.scheduleAt(dateStr, timeStr)
	if err != nil {
		return nil, err
	}

	// duração vem do serviço, não do agendamento antigo
	svc, err := uc.d.Repo.GetService(ctx, current.ServiceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NewNotFound("service_not_found", "service not found")
	}
	if err != nil {
		return nil, httperr.Database("load service", err)
	}

	previous := current.Date().Format("2006-01-02") + " " + current.StartTime
	var updated *models.Booking

	err = uc.d.Repo.WithSlotLock(ctx, current.StylistID, date, func(tx domain.Repository) error {
		b, err := loadBooking(ctx, tx, in.BookingID)
		if err != nil {
			return err
		}
		if !domain.Status(b.Status).Editable() {
			return httperr.NewBadRequest("booking_not_editable", "completed or cancelled bookings cannot be changed")
		}

		check, err := uc.d.Engine.With(tx).CheckSlot(ctx, domain.SlotQuery{
			StylistID:        b.StylistID,
			Date:             date,
			StartTime:        start,
			DurationMinutes:  svc.DurationMin,
			ExcludeBookingID: b.ID,
		})
		if err != nil {
			return err
		}
		if !check.Available {
			return uc.d.slotRejection(check.Reason)
		}

		b.AppointmentDate = datatypes.Date(date)
		b.StartTime = start.String()
		b.EndTime = start.Add(svc.DurationMin).String()
		if in.Notes != nil {
			b.Notes = strings.TrimSpace(*in.Notes)
		}
		b.UpdatedAt = uc.d.Clock.Now()

		if err := tx.UpdateBooking(ctx, b); err != nil {
			return writeConflict("reschedule booking", err)
		}
		updated = b
		return nil
	})
	if err != nil {
		uc.d.auditRejection(in.Actor, current.StylistID, dateStr, timeStr, err)
		return nil, httperr.Database("reschedule booking", err)
	}

	note := "from " + previous + " to " + dateStr + " " + updated.StartTime
	if r := strings.TrimSpace(in.Reason); r != "" {
		note += ": " + r
	}
	uc.d.appendHistory(ctx, &models.BookingHistory{
		BookingID:      updated.ID,
		Action:         "RESCHEDULED",
		PreviousStatus: updated.Status,
		NewStatus:      updated.Status,
		Note:           note,
		PerformedBy:    in.Actor.ID,
	})

	uc.d.Log.Info("booking rescheduled",
		zap.String("booking_id", updated.ID),
		zap.String("from", previous),
		zap.String("to", dateStr+" "+updated.StartTime),
	)
	return uc.d.detailed(ctx, updated.ID)
}
