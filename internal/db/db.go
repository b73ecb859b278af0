package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if cfg.DBAutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Info("database migrated")
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.WeeklySchedule{},
		&models.LeavePeriod{},
		&models.Booking{},
		&models.BookingHistory{},
		&models.Payment{},
		&models.Review{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// dois agendamentos ativos não começam no mesmo horário do mesmo stylist
	if err := db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_active_start
        ON bookings (stylist_id, appointment_date, start_time)
        WHERE status IN ('pending', 'confirmed', 'in_progress')
    `).Error; err != nil {
		return fmt.Errorf("create active booking index: %w", err)
	}

	// no máximo um pagamento aprovado por agendamento
	if err := db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_paid_once
        ON payments (booking_id)
        WHERE status = 'paid'
    `).Error; err != nil {
		return fmt.Errorf("create paid payment index: %w", err)
	}

	return nil
}
