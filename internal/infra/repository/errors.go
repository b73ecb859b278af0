package repository

import (
	"errors"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// notFound traduz o erro do gorm para o sentinela do domínio.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func duplicate(err error) error {
	if httperr.IsUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

// validID evita mandar texto arbitrário para colunas uuid.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// slotLockKey reduz (stylist, dia) ao int64 do pg_advisory_xact_lock.
func slotLockKey(stylistID string, date time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(stylistID))
	h.Write([]byte{'|'})
	h.Write([]byte(date.Format("2006-01-02")))
	return int64(h.Sum64())
}

func pageOffset(page, limit int) int {
	if page <= 0 {
		page = 1
	}
	return (page - 1) * limit
}
