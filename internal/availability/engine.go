package availability

import (
	"context"
	"iter"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

// Engine responde se um stylist está livre e quais horários podem ser
// reservados. Não guarda estado entre chamadas.
type Engine struct {
	reader  domain.AvailabilityReader
	policy  domain.SchedulePolicy
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(
	reader domain.AvailabilityReader,
	policy domain.SchedulePolicy,
	log *zap.Logger,
	m *metrics.Metrics,
) *Engine {
	return &Engine{
		reader:  reader,
		policy:  policy,
		log:     log,
		metrics: m,
	}
}

// With devolve uma cópia lendo de outro reader (ex.: a transação corrente).
func (e *Engine) With(reader domain.AvailabilityReader) *Engine {
	cp := *e
	cp.reader = reader
	return &cp
}

// Day é a fotografia da agenda de um stylist num dia.
type Day struct {
	Window domain.WorkingWindow
	Open   bool
	Reason string
	Busy   []domain.Interval
}

// Check aplica a janela e os conflitos a um intervalo candidato.
func (d *Day) Check(candidate domain.Interval) domain.SlotCheck {
	res := domain.SlotCheck{Window: d.Window}

	if !d.Open {
		res.Reason = d.Reason
		return res
	}
	if !candidate.Within(d.Window.Interval) {
		res.Reason = domain.ReasonOutsideHours
		return res
	}
	for _, busy := range d.Busy {
		if candidate.Overlaps(busy) {
			res.Reason = domain.ReasonConflict
			return res
		}
	}

	res.Available = true
	return res
}

// Slots percorre os inícios candidatos a cada 15 minutos, da abertura até
// fim-duração inclusive. A sequência pode ser percorrida mais de uma vez.
func (d *Day) Slots(durationMin int) iter.Seq[domain.TimeSlot] {
	return func(yield func(domain.TimeSlot) bool) {
		if !d.Open || durationMin <= 0 {
			return
		}
		last := d.Window.End.Add(-durationMin)
		for t := d.Window.Start; t <= last; t = t.Add(domain.SlotStride) {
			iv := domain.NewInterval(t, durationMin)
			check := d.Check(iv)
			slot := domain.TimeSlot{
				Time:        iv.Start.String(),
				EndTime:     iv.End.String(),
				IsAvailable: check.Available,
				Reason:      check.Reason,
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// resolveWindow decide se o dia está aberto (licença, agenda ou política).
func (e *Engine) resolveWindow(
	ctx context.Context,
	stylistID string,
	date time.Time,
) (*Day, error) {

	leave, err := e.reader.FindLeaveCovering(ctx, stylistID, date)
	if err != nil {
		return nil, httperr.Database("load leave periods", err)
	}
	if leave != nil {
		return &Day{Window: domain.WorkingWindow{Source: domain.WindowClosed}, Reason: domain.ReasonOnLeave}, nil
	}

	weekday := date.Weekday()
	entry, err := e.reader.GetWeeklySchedule(ctx, stylistID, weekday)
	if err != nil {
		return nil, httperr.Database("load weekly schedule", err)
	}

	window, open := e.policy.Resolve(entry, weekday)
	if !open {
		return &Day{Window: window, Reason: domain.ReasonClosed}, nil
	}

	if window.Source == domain.WindowFromDefault {
		e.log.Warn("default working window applied",
			zap.String("stylist_id", stylistID),
			zap.String("weekday", weekday.String()),
		)
		if e.metrics != nil {
			e.metrics.DefaultScheduleUsed.Inc()
		}
	}

	return &Day{Window: window, Open: true}, nil
}

func (e *Engine) loadBusy(
	ctx context.Context,
	day *Day,
	stylistID string,
	date time.Time,
	excludeID string,
) error {

	bookings, err := e.reader.FindActiveBookings(ctx, stylistID, date, excludeID)
	if err != nil {
		return httperr.Database("load active bookings", err)
	}

	day.Busy = make([]domain.Interval, 0, len(bookings))
	for i := range bookings {
		if !domain.Status(bookings[i].Status).IsActive() {
			continue
		}
		if iv, ok := domain.Occupied(&bookings[i]); ok {
			day.Busy = append(day.Busy, iv)
		}
	}
	return nil
}

// LoadDay carrega janela e agendamentos ativos de um stylist num dia.
func (e *Engine) LoadDay(
	ctx context.Context,
	stylistID string,
	date time.Time,
	excludeID string,
) (*Day, error) {

	day, err := e.resolveWindow(ctx, stylistID, date)
	if err != nil || !day.Open {
		return day, err
	}
	if err := e.loadBusy(ctx, day, stylistID, date, excludeID); err != nil {
		return nil, err
	}
	return day, nil
}

// CheckSlot é IsSlotAvailable com o motivo da recusa.
func (e *Engine) CheckSlot(ctx context.Context, q domain.SlotQuery) (domain.SlotCheck, error) {
	if q.DurationMinutes <= 0 {
		return domain.SlotCheck{}, httperr.NewBadRequest("invalid_duration", "duration must be positive")
	}
	if e.metrics != nil {
		defer observe(e.metrics, time.Now())
	}

	candidate := domain.NewInterval(q.StartTime, q.DurationMinutes)

	day, err := e.resolveWindow(ctx, q.StylistID, q.Date)
	if err != nil {
		return domain.SlotCheck{}, err
	}

	// janela primeiro: fora do expediente nem consulta agendamentos
	if check := day.Check(candidate); !check.Available {
		return check, nil
	}

	if err := e.loadBusy(ctx, day, q.StylistID, q.Date, q.ExcludeBookingID); err != nil {
		return domain.SlotCheck{}, err
	}
	return day.Check(candidate), nil
}

func (e *Engine) IsSlotAvailable(ctx context.Context, q domain.SlotQuery) (bool, error) {
	check, err := e.CheckSlot(ctx, q)
	if err != nil {
		return false, err
	}
	return check.Available, nil
}

// ListAvailableSlots devolve todos os candidatos do dia, livres ou não.
// Dia fechado ou de licença produz uma sequência vazia.
func (e *Engine) ListAvailableSlots(
	ctx context.Context,
	stylistID string,
	date time.Time,
	durationMin int,
) (iter.Seq[domain.TimeSlot], *Day, error) {

	if durationMin <= 0 {
		return nil, nil, httperr.NewBadRequest("invalid_duration", "duration must be positive")
	}
	if e.metrics != nil {
		defer observe(e.metrics, time.Now())
	}

	day, err := e.LoadDay(ctx, stylistID, date, "")
	if err != nil {
		return nil, nil, err
	}
	return day.Slots(durationMin), day, nil
}

func observe(m *metrics.Metrics, start time.Time) {
	m.AvailabilityDuration.Observe(time.Since(start).Seconds())
}
