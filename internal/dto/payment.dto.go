package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type PaymentDTO struct {
	ID             string     `json:"id"`
	BookingID      string     `json:"booking_id"`
	Amount         string     `json:"amount"`
	Method         string     `json:"method"`
	Status         string     `json:"status"`
	TransactionRef string     `json:"transaction_ref,omitempty"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	PaidAt         *time.Time `json:"paid_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

func Payment(p *models.Payment) PaymentDTO {
	return PaymentDTO{
		ID:             p.ID,
		BookingID:      p.BookingID,
		Amount:         p.Amount.StringFixed(2),
		Method:         p.Method,
		Status:         p.Status,
		TransactionRef: p.TransactionRef,
		FailureReason:  p.FailureReason,
		PaidAt:         p.PaidAt,
		CreatedAt:      p.CreatedAt,
	}
}

func Payments(items []models.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(items))
	for i := range items {
		out = append(out, Payment(&items[i]))
	}
	return out
}

type ReviewDTO struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	CustomerID string    `json:"customer_id"`
	StylistID  string    `json:"stylist_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func Review(r *models.Review) ReviewDTO {
	return ReviewDTO{
		ID:         r.ID,
		BookingID:  r.BookingID,
		CustomerID: r.CustomerID,
		StylistID:  r.StylistID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func Reviews(items []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(items))
	for i := range items {
		out = append(out, Review(&items[i]))
	}
	return out
}
