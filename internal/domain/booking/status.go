package booking

import (
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// transitions é a única fonte de verdade da máquina de estados.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusInProgress,
		StatusCompleted,
		StatusCancelled,
		StatusNoShow,
	}
}

// ActiveStatuses ocupam a agenda do stylist.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusInProgress}
}

func ActiveStatusStrings() []string {
	active := ActiveStatuses()
	out := make([]string, len(active))
	for i, s := range active {
		out[i] = string(s)
	}
	return out
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", httperr.NewBadRequest("invalid_status", "unknown status "+s)
	}
	return st, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return !ok || len(next) == 0
}

// Editable: data, hora e notas só mudam fora de completed/cancelled.
// no_show é terminal mas continua editável.
func (s Status) Editable() bool {
	return !s.IsTerminal() || s == StatusNoShow
}

// Next lista os destinos válidos na ordem de AllStatuses.
func (s Status) Next() []Status {
	out := []Status{}
	for _, to := range AllStatuses() {
		if s.CanTransitionTo(to) {
			out = append(out, to)
		}
	}
	return out
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return httperr.NewInvalidTransition(string(from), string(to))
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}

// ActionFor gera o rótulo gravado no histórico.
func ActionFor(to Status) string {
	return "STATUS_CHANGED_TO_" + strings.ToUpper(string(to))
}
