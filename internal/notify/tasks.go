package notify

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	TypeBookingCreated  = "booking:created"
	TypeBookingStatus   = "booking:status"
	TypeBookingReminder = "booking:reminder"
	TypePasswordReset   = "auth:password_reset"
)

// ReminderLead é a antecedência do lembrete antes do horário marcado.
const ReminderLead = 2 * time.Hour

type BookingPayload struct {
	BookingID      string `json:"booking_id"`
	CustomerID     string `json:"customer_id"`
	StylistID      string `json:"stylist_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
}

type PasswordResetPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func bookingPayload(b *models.Booking, previous string) BookingPayload {
	return BookingPayload{
		BookingID:      b.ID,
		CustomerID:     b.CustomerID,
		StylistID:      b.StylistID,
		Date:           b.Date().Format("2006-01-02"),
		StartTime:      b.StartTime,
		Status:         b.Status,
		PreviousStatus: previous,
	}
}

func newTask(typ string, payload any, opts ...asynq.Option) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typ, body, opts...), nil
}

func NewBookingCreatedTask(b *models.Booking) (*asynq.Task, error) {
	return newTask(TypeBookingCreated, bookingPayload(b, ""), asynq.MaxRetry(5))
}

func NewBookingStatusTask(b *models.Booking, previous string) (*asynq.Task, error) {
	return newTask(TypeBookingStatus, bookingPayload(b, previous), asynq.MaxRetry(5))
}

// NewReminderTask agenda o lembrete para fireAt.
func NewReminderTask(b *models.Booking, fireAt time.Time) (*asynq.Task, error) {
	return newTask(TypeBookingReminder, bookingPayload(b, ""),
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:"+b.ID),
	)
}

func NewPasswordResetTask(email, code string) (*asynq.Task, error) {
	return newTask(TypePasswordReset, PasswordResetPayload{Email: email, Code: code},
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
}
