package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/availability"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Deps reúne os colaboradores comuns aos use cases de agendamento.
type Deps struct {
	Repo     domain.Repository
	Engine   *availability.Engine
	Clock    timezone.Clock
	Notifier notify.Notifier
	Audit    *audit.Dispatcher
	Log      *zap.Logger
	Metrics  *metrics.Metrics

	// MinAdvance é a antecedência mínima para marcar/remarcar.
	MinAdvance time.Duration
}

// ------------------------------------------------------
// Helpers
// ------------------------------------------------------

// appendHistory nunca falha a operação: o erro vai para o log e para a métrica.
func (d Deps) appendHistory(ctx context.Context, h *models.BookingHistory) {
	if err := d.Repo.AppendHistory(ctx, h); err != nil {
		d.Log.Warn("booking history write failed",
			zap.String("booking_id", h.BookingID),
			zap.String("action", h.Action),
			zap.Error(err),
		)
		d.Metrics.HistoryWriteFailures.Inc()
	}
}

func (d Deps) notifyStatus(ctx context.Context, b *models.Booking, previous string) {
	if err := d.Notifier.BookingStatusChanged(ctx, b, previous); err != nil {
		d.Log.Warn("status notification failed",
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
}

// loadBooking traduz ErrNotFound para o erro de domínio.
func loadBooking(ctx context.Context, repo domain.Repository, id string) (*models.Booking, error) {
	b, err := repo.GetBooking(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NewNotFound("booking_not_found", "booking not found")
	}
	if err != nil {
		return nil, httperr.Database("load booking", err)
	}
	return b, nil
}

func (d Deps) detailed(ctx context.Context, id string) (*models.Booking, error) {
	return loadDetailed(ctx, d.Repo, id)
}

func loadDetailed(ctx context.Context, repo domain.Repository, id string) (*models.Booking, error) {
	b, err := repo.GetBookingDetailed(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NewNotFound("booking_not_found", "booking not found")
	}
	if err != nil {
		return nil, httperr.Database("load booking", err)
	}
	return b, nil
}

// slotRejection transforma o motivo do engine num Conflict acionável.
func (d Deps) slotRejection(reason string) error {
	d.Metrics.SlotConflicts.WithLabelValues(reason).Inc()

	switch reason {
	case domain.ReasonClosed:
		return httperr.NewConflict("stylist_closed", "the stylist does not work on this day")
	case domain.ReasonOnLeave:
		return httperr.NewConflict("stylist_on_leave", "the stylist is on leave on this day")
	case domain.ReasonOutsideHours:
		return httperr.NewConflict("outside_working_hours", "the requested time is outside the stylist's working hours")
	default:
		return httperr.NewConflict("time_conflict", "the requested time overlaps another booking")
	}
}

// writeConflict: o banco recusou a escrita porque outra transação venceu.
func writeConflict(op string, err error) error {
	if httperr.IsWriteConflict(err) {
		return httperr.NewConflict("time_conflict", "the requested time was just taken")
	}
	return httperr.Database(op, err)
}

// scheduleAt valida data/hora e a antecedência mínima no relógio da barbearia.
func (d Deps) scheduleAt(date, clock string) (time.Time, domain.ClockTime, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return time.Time{}, 0, httperr.NewBadRequest("invalid_date", "date must be YYYY-MM-DD")
	}
	start, err := domain.ParseClock(clock)
	if err != nil {
		return time.Time{}, 0, httperr.NewBadRequest("invalid_time", "time must be HH:MM")
	}

	now := d.Clock.Now()
	at := start.On(day, d.Clock.Location())
	if at.Before(now.Add(d.MinAdvance)) {
		return time.Time{}, 0, httperr.NewBadRequest("booking_in_past", "bookings must be made for a future time")
	}
	return day, start, nil
}

// auditRejection registra tentativas barradas por conflito de agenda.
func (d Deps) auditRejection(actor domain.Actor, stylistID, date, clock string, err error) {
	var be httperr.BusinessError
	if !errors.As(err, &be) || be.Kind != httperr.KindConflict {
		return
	}
	d.Audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(actor.ID),
		Action:   "booking_slot_rejected",
		Entity:   "stylist",
		EntityID: audit.Ptr(stylistID),
		Metadata: map[string]string{
			"date":   date,
			"time":   clock,
			"reason": be.Code,
		},
	})
}
