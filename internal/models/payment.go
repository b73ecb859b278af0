package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentPaid   = "paid"
	PaymentFailed = "failed"
)

type Payment struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID string `gorm:"type:uuid;not null;index" json:"booking_id"`

	Amount         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Method         string          `gorm:"size:20;not null" json:"method"`
	Status         string          `gorm:"size:20;not null" json:"status"`
	TransactionRef string          `gorm:"size:64" json:"transaction_ref"`
	FailureReason  string          `gorm:"size:255" json:"failure_reason,omitempty"`
	PaidAt         *time.Time      `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
}
