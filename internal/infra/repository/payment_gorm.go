package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return (&BookingGormRepository{db: r.db}).GetBooking(ctx, id)
}

func (r *PaymentGormRepository) ListPayments(ctx context.Context, bookingID string) ([]models.Payment, error) {
	var rows []models.Payment
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PaymentGormRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// WithBookingLock segura SELECT ... FOR UPDATE na linha do agendamento.
func (r *PaymentGormRepository) WithBookingLock(
	ctx context.Context,
	bookingID string,
	fn func(tx domain.PaymentRepository, b *models.Booking) error,
) error {

	if !validID(bookingID) {
		return domain.ErrNotFound
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", bookingID).Error; err != nil {
			return notFound(err)
		}
		return fn(&PaymentGormRepository{db: tx}, &b)
	})
}

var _ domain.PaymentRepository = (*PaymentGormRepository)(nil)
