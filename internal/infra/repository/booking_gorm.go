package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *BookingGormRepository) GetWeeklySchedule(
	ctx context.Context,
	stylistID string,
	weekday time.Weekday,
) (*models.WeeklySchedule, error) {

	if !validID(stylistID) {
		return nil, nil
	}

	var rows []models.WeeklySchedule
	if err := r.db.WithContext(ctx).
		Where("stylist_id = ? AND weekday = ?", stylistID, int(weekday)).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *BookingGormRepository) FindLeaveCovering(
	ctx context.Context,
	stylistID string,
	date time.Time,
) (*models.LeavePeriod, error) {

	if !validID(stylistID) {
		return nil, nil
	}

	day := datatypes.Date(domain.DateOnly(date))
	var rows []models.LeavePeriod
	if err := r.db.WithContext(ctx).
		Where("stylist_id = ? AND start_date <= ? AND end_date >= ?", stylistID, day, day).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// --------------------------------------------------
// Active bookings
// --------------------------------------------------

func (r *BookingGormRepository) FindActiveBookings(
	ctx context.Context,
	stylistID string,
	date time.Time,
	excludeID string,
) ([]models.Booking, error) {

	if !validID(stylistID) {
		return nil, nil
	}

	q := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"stylist_id = ? AND appointment_date = ? AND status IN ?",
			stylistID,
			datatypes.Date(domain.DateOnly(date)),
			domain.ActiveStatusStrings(),
		)
	if excludeID != "" && validID(excludeID) {
		q = q.Where("id <> ?", excludeID)
	}

	var bookings []models.Booking
	if err := q.Order("start_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Users / Services
// --------------------------------------------------

func (r *BookingGormRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *BookingGormRepository) GetService(ctx context.Context, id string) (*models.Service, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *BookingGormRepository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingDetailed(ctx context.Context, id string) (*models.Booking, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Stylist").
		Preload("Service").
		First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(ctx context.Context, b *models.Booking) error {
	res := r.db.WithContext(ctx).Omit(clause.Associations).Save(b)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	for _, id := range []string{f.CustomerID, f.StylistID, f.ServiceID} {
		if id != "" && !validID(id) {
			return []models.Booking{}, 0, nil
		}
	}

	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.StylistID != "" {
		q = q.Where("stylist_id = ?", f.StylistID)
	}
	if f.ServiceID != "" {
		q = q.Where("service_id = ?", f.ServiceID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("appointment_date >= ?", datatypes.Date(domain.DateOnly(*f.DateFrom)))
	}
	if f.DateTo != nil {
		q = q.Where("appointment_date <= ?", datatypes.Date(domain.DateOnly(*f.DateTo)))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Booking
	if err := q.
		Preload("Customer").
		Preload("Stylist").
		Preload("Service").
		Order(f.OrderClause()).
		Offset(f.Offset()).
		Limit(f.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// --------------------------------------------------
// History
// --------------------------------------------------

func (r *BookingGormRepository) AppendHistory(ctx context.Context, h *models.BookingHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *BookingGormRepository) ListHistory(ctx context.Context, bookingID string) ([]models.BookingHistory, error) {
	var rows []models.BookingHistory
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --------------------------------------------------
// Stats
// --------------------------------------------------

func (r *BookingGormRepository) Stats(ctx context.Context, w domain.StatsWindow) (*domain.Stats, error) {
	db := r.db.WithContext(ctx)
	st := &domain.Stats{ByStatus: map[string]int64{}}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		st.ByStatus[row.Status] = row.Count
		st.Total += row.Count
	}

	count := func(where string, args ...any) (int64, error) {
		var n int64
		err := db.Model(&models.Booking{}).Where(where, args...).Count(&n).Error
		return n, err
	}

	var err error
	if st.Today, err = count("appointment_date = ?", datatypes.Date(w.Today)); err != nil {
		return nil, err
	}
	if st.ThisWeek, err = count("appointment_date >= ? AND appointment_date < ?",
		datatypes.Date(w.WeekStart), datatypes.Date(w.WeekEnd)); err != nil {
		return nil, err
	}
	if st.ThisMonth, err = count("appointment_date >= ? AND appointment_date < ?",
		datatypes.Date(w.MonthStart), datatypes.Date(w.MonthEnd)); err != nil {
		return nil, err
	}

	var avg decimal.NullDecimal
	if err := db.Model(&models.Booking{}).
		Select("AVG(total_amount)").
		Where("status = ?", string(domain.StatusCompleted)).
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	st.AverageCompletedValue = decimal.Zero
	if avg.Valid {
		st.AverageCompletedValue = avg.Decimal.Round(2)
	}

	if err := db.Table("bookings AS b").
		Select("b.service_id, s.name AS service_name, COUNT(*) AS count").
		Joins("LEFT JOIN services s ON s.id = b.service_id").
		Group("b.service_id, s.name").
		Order("count DESC, s.name ASC").
		Limit(domain.TopServicesLimit).
		Scan(&st.TopServices).Error; err != nil {
		return nil, err
	}

	return st, nil
}

// --------------------------------------------------
// Lock
// --------------------------------------------------

// WithSlotLock abre uma transação e segura pg_advisory_xact_lock para
// (stylist, dia). O lock é solto no commit/rollback.
func (r *BookingGormRepository) WithSlotLock(
	ctx context.Context,
	stylistID string,
	date time.Time,
	fn func(tx domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", slotLockKey(stylistID, date)).Error; err != nil {
			return err
		}
		return fn(&BookingGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
