package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// WindowSource indica de onde veio a janela de trabalho do dia.
type WindowSource string

const (
	WindowFromSchedule WindowSource = "schedule"
	WindowFromDefault  WindowSource = "default"
	WindowClosed       WindowSource = "closed"
)

type WorkingWindow struct {
	Interval
	Source WindowSource
}

// SchedulePolicy decide a janela quando o stylist não cadastrou o dia.
type SchedulePolicy struct {
	ClosedWeekdays []time.Weekday
	DefaultStart   ClockTime
	DefaultEnd     ClockTime

	// UnavailableRowCloses faz uma linha com IsAvailable=false fechar o dia.
	// Desligado, a linha é ignorada e vale a janela padrão.
	UnavailableRowCloses bool
}

// DefaultSchedulePolicy: domingo fechado, demais dias 09:00–18:00.
func DefaultSchedulePolicy() SchedulePolicy {
	return SchedulePolicy{
		ClosedWeekdays: []time.Weekday{time.Sunday},
		DefaultStart:   MustClock("09:00"),
		DefaultEnd:     MustClock("18:00"),
	}
}

func (p SchedulePolicy) closedOn(day time.Weekday) bool {
	for _, d := range p.ClosedWeekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Resolve devolve a janela efetiva do dia. ok=false significa dia fechado.
// Só linhas disponíveis contam como agenda; sem elas, vale a política.
func (p SchedulePolicy) Resolve(entry *models.WeeklySchedule, day time.Weekday) (WorkingWindow, bool) {
	if entry != nil && !entry.IsAvailable {
		if p.UnavailableRowCloses {
			return WorkingWindow{Source: WindowClosed}, false
		}
		entry = nil
	}

	if entry != nil {
		start, err1 := ParseClock(entry.StartTime)
		end, err2 := ParseClock(entry.EndTime)
		if err1 != nil || err2 != nil || start >= end {
			return WorkingWindow{Source: WindowClosed}, false
		}
		return WorkingWindow{
			Interval: Interval{Start: start, End: end},
			Source:   WindowFromSchedule,
		}, true
	}

	if p.closedOn(day) {
		return WorkingWindow{Source: WindowClosed}, false
	}

	return WorkingWindow{
		Interval: Interval{Start: p.DefaultStart, End: p.DefaultEnd},
		Source:   WindowFromDefault,
	}, true
}

// ScheduleDay é a entrada de escrita da agenda semanal.
type ScheduleDay struct {
	Weekday     int
	StartTime   string
	EndTime     string
	IsAvailable bool
}

// ValidateWeeklySchedule garante start < end nos dias disponíveis e
// no máximo uma linha por dia da semana.
func ValidateWeeklySchedule(days []ScheduleDay) error {
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return httperr.NewBadRequest("invalid_weekday", "weekday must be between 0 and 6")
		}
		if seen[d.Weekday] {
			return httperr.NewBadRequest("duplicate_weekday", "weekday listed more than once")
		}
		seen[d.Weekday] = true

		if !d.IsAvailable {
			continue
		}
		start, err := ParseClock(d.StartTime)
		if err != nil {
			return httperr.NewBadRequest("invalid_start_time", err.Error())
		}
		end, err := ParseClock(d.EndTime)
		if err != nil {
			return httperr.NewBadRequest("invalid_end_time", err.Error())
		}
		if start >= end {
			return httperr.NewBadRequest("invalid_schedule_window", "start_time must be before end_time")
		}
	}
	return nil
}

// ToModels normaliza os horários para HH:MM:SS.
func ToModels(stylistID string, days []ScheduleDay) []models.WeeklySchedule {
	out := make([]models.WeeklySchedule, 0, len(days))
	for _, d := range days {
		row := models.WeeklySchedule{
			StylistID:   stylistID,
			Weekday:     d.Weekday,
			IsAvailable: d.IsAvailable,
		}
		if c, err := ParseClock(d.StartTime); err == nil {
			row.StartTime = c.String()
		}
		if c, err := ParseClock(d.EndTime); err == nil {
			row.EndTime = c.String()
		}
		out = append(out, row)
	}
	return out
}

func ValidateLeave(start, end time.Time) error {
	if end.Before(start) {
		return httperr.NewBadRequest("invalid_leave_period", "end_date must not be before start_date")
	}
	return nil
}
