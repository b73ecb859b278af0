package booking

import "time"

// SlotStride é o passo entre inícios candidatos.
const SlotStride = 15

// DefaultBookingMinutes ocupa a agenda quando um agendamento não tem fim gravado.
const DefaultBookingMinutes = 60

// Motivos de indisponibilidade.
const (
	ReasonClosed       = "closed"
	ReasonOnLeave      = "on_leave"
	ReasonOutsideHours = "outside_working_hours"
	ReasonConflict     = "time_conflict"
)

type SlotQuery struct {
	StylistID        string
	Date             time.Time
	StartTime        ClockTime
	DurationMinutes  int
	ExcludeBookingID string
}

type SlotCheck struct {
	Available bool
	Reason    string
	Window    WorkingWindow
}

type TimeSlot struct {
	Time        string `json:"time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
	Reason      string `json:"reason,omitempty"`
}
