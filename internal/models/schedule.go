package models

import (
	"time"

	"gorm.io/datatypes"
)

// WeeklySchedule é a janela de trabalho padrão de um stylist num dia da semana
// (0=domingo .. 6=sábado).
type WeeklySchedule struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StylistID string `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_stylist_weekday" json:"stylist_id"`

	Weekday int `gorm:"not null;uniqueIndex:idx_schedule_stylist_weekday" json:"weekday"`

	StartTime   string `gorm:"size:8" json:"start_time"`
	EndTime     string `gorm:"size:8" json:"end_time"`
	IsAvailable bool   `json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeavePeriod fecha a agenda do stylist entre StartDate e EndDate (inclusive).
type LeavePeriod struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	StylistID string `gorm:"type:uuid;not null;index" json:"stylist_id"`

	StartDate datatypes.Date `gorm:"type:date;not null" json:"start_date"`
	EndDate   datatypes.Date `gorm:"type:date;not null" json:"end_date"`
	Reason    string         `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
