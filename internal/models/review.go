package models

import "time"

type Review struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID string `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`

	CustomerID string `gorm:"type:uuid;not null;index" json:"customer_id"`
	StylistID  string `gorm:"type:uuid;not null;index" json:"stylist_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"size:1000" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
