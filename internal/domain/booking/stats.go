package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

const TopServicesLimit = 5

// StatsWindow carrega os intervalos [From, To) de cada contador.
type StatsWindow struct {
	Today      time.Time
	WeekStart  time.Time
	WeekEnd    time.Time
	MonthStart time.Time
	MonthEnd   time.Time
}

// WindowsFor calcula hoje, a semana (domingo a sábado) e o mês de now.
func WindowsFor(now time.Time) StatsWindow {
	today := DateOnly(now)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	return StatsWindow{
		Today:      today,
		WeekStart:  weekStart,
		WeekEnd:    weekStart.AddDate(0, 0, 7),
		MonthStart: monthStart,
		MonthEnd:   monthStart.AddDate(0, 1, 0),
	}
}

type ServiceCount struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	Count       int64  `json:"count"`
}

type Stats struct {
	Total                 int64            `json:"total"`
	ByStatus              map[string]int64 `json:"by_status"`
	Today                 int64            `json:"today"`
	ThisWeek              int64            `json:"this_week"`
	ThisMonth             int64            `json:"this_month"`
	AverageCompletedValue decimal.Decimal  `json:"average_completed_value"`
	TopServices           []ServiceCount   `json:"top_services"`
}
