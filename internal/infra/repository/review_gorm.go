package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	return (&BookingGormRepository{db: r.db}).GetUser(ctx, id)
}

func (r *ReviewGormRepository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return (&BookingGormRepository{db: r.db}).GetBooking(ctx, id)
}

func (r *ReviewGormRepository) FindReviewByBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	var rows []models.Review
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *ReviewGormRepository) CreateReview(ctx context.Context, rv *models.Review) error {
	return duplicate(r.db.WithContext(ctx).Create(rv).Error)
}

func (r *ReviewGormRepository) ListStylistReviews(
	ctx context.Context,
	stylistID string,
	page, limit int,
) ([]models.Review, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("stylist_id = ?", stylistID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Review
	if err := q.
		Order("created_at DESC").
		Offset(pageOffset(page, limit)).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *ReviewGormRepository) StylistRating(ctx context.Context, stylistID string) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("stylist_id = ?", stylistID).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Count, nil
}

var _ domain.ReviewRepository = (*ReviewGormRepository)(nil)
