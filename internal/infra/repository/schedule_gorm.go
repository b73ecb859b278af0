package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var _ domain.ScheduleRepository = (*ScheduleGormRepository)(nil)

// --------------------------------------------------
// Schedule / Leaves
// --------------------------------------------------

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) ListWeeklySchedule(ctx context.Context, stylistID string) ([]models.WeeklySchedule, error) {
	var rows []models.WeeklySchedule
	if err := r.db.WithContext(ctx).
		Where("stylist_id = ?", stylistID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceWeeklySchedule faz upsert dos dias enviados e remove os demais.
func (r *ScheduleGormRepository) ReplaceWeeklySchedule(
	ctx context.Context,
	stylistID string,
	rows []models.WeeklySchedule,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]int, 0, len(rows))
		for _, row := range rows {
			keep = append(keep, row.Weekday)
		}

		del := tx.Where("stylist_id = ?", stylistID)
		if len(keep) > 0 {
			del = del.Where("weekday NOT IN ?", keep)
		}
		if err := del.Delete(&models.WeeklySchedule{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stylist_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "is_available", "updated_at"}),
		}).Create(&rows).Error
	})
}

func (r *ScheduleGormRepository) ListLeaves(ctx context.Context, stylistID string) ([]models.LeavePeriod, error) {
	var rows []models.LeavePeriod
	if err := r.db.WithContext(ctx).
		Where("stylist_id = ?", stylistID).
		Order("start_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleGormRepository) CreateLeave(ctx context.Context, l *models.LeavePeriod) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *ScheduleGormRepository) DeleteLeave(ctx context.Context, stylistID, leaveID string) error {
	if !validID(leaveID) {
		return domain.ErrNotFound
	}
	res := r.db.WithContext(ctx).
		Where("id = ? AND stylist_id = ?", leaveID, stylistID).
		Delete(&models.LeavePeriod{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
