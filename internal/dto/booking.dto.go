package dto

import (
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const dateLayout = "2006-01-02"

type UserSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ServiceSummaryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DurationMin int    `json:"duration_min"`
	Price       string `json:"price"`
}

type BookingDTO struct {
	ID              string   `json:"id"`
	CustomerID      string   `json:"customer_id"`
	StylistID       string   `json:"stylist_id"`
	ServiceID       string   `json:"service_id"`
	AppointmentDate string   `json:"appointment_date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	Status          string   `json:"status"`
	Terminal        bool     `json:"terminal"`
	NextStatuses    []string `json:"next_statuses"`
	TotalAmount     string   `json:"total_amount"`
	Notes           string   `json:"notes"`
	CancelReason    string   `json:"cancel_reason,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Customer *UserSummaryDTO    `json:"customer,omitempty"`
	Stylist  *UserSummaryDTO    `json:"stylist,omitempty"`
	Service  *ServiceSummaryDTO `json:"service,omitempty"`
}

func userSummary(u *models.User) *UserSummaryDTO {
	if u == nil {
		return nil
	}
	return &UserSummaryDTO{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func Booking(b *models.Booking) BookingDTO {
	st := domain.Status(b.Status)
	next := st.Next()

	out := BookingDTO{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		StylistID:       b.StylistID,
		ServiceID:       b.ServiceID,
		AppointmentDate: b.Date().Format(dateLayout),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          b.Status,
		Terminal:        st.IsTerminal(),
		NextStatuses:    make([]string, 0, len(next)),
		TotalAmount:     b.TotalAmount.StringFixed(2),
		Notes:           b.Notes,
		CancelReason:    b.CancelReason,
		ConfirmedAt:     b.ConfirmedAt,
		CompletedAt:     b.CompletedAt,
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Customer:        userSummary(b.Customer),
		Stylist:         userSummary(b.Stylist),
	}
	for _, n := range next {
		out.NextStatuses = append(out.NextStatuses, n.String())
	}
	if b.Service != nil {
		out.Service = &ServiceSummaryDTO{
			ID:          b.Service.ID,
			Name:        b.Service.Name,
			DurationMin: b.Service.DurationMin,
			Price:       b.Service.Price.StringFixed(2),
		}
	}
	return out
}

func Bookings(items []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(items))
	for i := range items {
		out = append(out, Booking(&items[i]))
	}
	return out
}

type HistoryDTO struct {
	ID             uint      `json:"id"`
	Action         string    `json:"action"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status,omitempty"`
	Note           string    `json:"note,omitempty"`
	PerformedBy    string    `json:"performed_by"`
	CreatedAt      time.Time `json:"created_at"`
}

func History(items []models.BookingHistory) []HistoryDTO {
	out := make([]HistoryDTO, 0, len(items))
	for _, h := range items {
		out = append(out, HistoryDTO{
			ID:             h.ID,
			Action:         h.Action,
			PreviousStatus: h.PreviousStatus,
			NewStatus:      h.NewStatus,
			Note:           h.Note,
			PerformedBy:    h.PerformedBy,
			CreatedAt:      h.CreatedAt,
		})
	}
	return out
}
