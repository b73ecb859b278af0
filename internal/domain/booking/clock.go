package booking

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// ClockTime é uma hora do dia em minutos desde a meia-noite.
type ClockTime int

// ParseClock aceita "HH:MM" ou "HH:MM:SS". Segundos são descartados.
func ParseClock(s string) (ClockTime, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) Add(minutes int) ClockTime {
	return c + ClockTime(minutes)
}

func (c ClockTime) Hour() int {
	return int(c) / 60
}

func (c ClockTime) Minute() int {
	return int(c) % 60
}

// String formata como HH:MM:SS, o formato gravado no banco.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:00", c.Hour(), c.Minute())
}

// Valid: dentro do mesmo dia. 24:00 só é aceito como fim de intervalo.
func (c ClockTime) Valid() bool {
	return c >= 0 && c <= minutesPerDay
}

// On combina a hora com um dia no fuso informado.
func (c ClockTime) On(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, loc)
}

// Interval é semiaberto: [Start, End).
type Interval struct {
	Start ClockTime
	End   ClockTime
}

func NewInterval(start ClockTime, durationMin int) Interval {
	return Interval{Start: start, End: start.Add(durationMin)}
}

// Overlaps cobre os três casos: início dentro, fim dentro, ou contenção total.
// Intervalos que apenas se tocam (10:00 fim / 10:00 início) não conflitam.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

func (i Interval) Within(o Interval) bool {
	return i.Start >= o.Start && i.End <= o.End
}

func (i Interval) Minutes() int {
	return int(i.End - i.Start)
}

// DateOnly zera a hora mantendo ano/mês/dia, em UTC (hora local ingênua).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

