package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID preenche IDs opacos (uuid v4) antes do insert.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	newID(&s.ID)
	return nil
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	newID(&b.ID)
	return nil
}

func (l *LeavePeriod) BeforeCreate(tx *gorm.DB) error {
	newID(&l.ID)
	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	return nil
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	newID(&r.ID)
	return nil
}
