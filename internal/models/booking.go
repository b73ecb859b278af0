package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Booking struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	CustomerID string `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *User  `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`

	StylistID string `gorm:"type:uuid;not null;index:idx_booking_stylist_day" json:"stylist_id"`
	Stylist   *User  `gorm:"foreignKey:StylistID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"stylist,omitempty"`

	ServiceID string   `gorm:"type:uuid;not null;index" json:"service_id"`
	Service   *Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	AppointmentDate datatypes.Date `gorm:"type:date;not null;index:idx_booking_stylist_day" json:"appointment_date"`
	StartTime       string         `gorm:"size:8;not null" json:"start_time"`
	EndTime         string         `gorm:"size:8" json:"end_time"`

	Status      string          `gorm:"size:20;default:'pending';index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`

	Notes        string     `gorm:"size:500" json:"notes"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Date devolve o dia do agendamento como time.Time (meia-noite, sem fuso).
func (b *Booking) Date() time.Time {
	return time.Time(b.AppointmentDate)
}

// BookingHistory é append-only: nunca é atualizado nem removido.
type BookingHistory struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BookingID string `gorm:"type:uuid;not null;index" json:"booking_id"`

	Action         string `gorm:"size:50;not null" json:"action"`
	PreviousStatus string `gorm:"size:20" json:"previous_status"`
	NewStatus      string `gorm:"size:20" json:"new_status"`
	Note           string `gorm:"size:500" json:"note"`
	PerformedBy    string `gorm:"size:64" json:"performed_by"`

	CreatedAt time.Time `json:"created_at"`
}

func (BookingHistory) TableName() string {
	return "booking_history"
}
