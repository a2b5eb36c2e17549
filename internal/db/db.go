package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/config"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
)

func NewDB(cfg *config.Config, logger *zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, cfg.DefaultTimezone); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate")
	}

	if err := ensureOverlapExclusion(db); err != nil {
		logger.Warn().Err(err).Msg("overlap exclusion constraint not installed; relying on commit lock and unique index")
	}

	return db
}

// Migrate creates the schema and the unique index that makes two active
// appointments of one professional at the same start impossible.
func Migrate(db *gorm.DB, defaultTimezone string) error {
	if err := db.AutoMigrate(
		&models.Salon{},
		&models.Professional{},
		&models.Service{},
		&models.WorkingHours{},
		&models.Closure{},
		&models.Customer{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_professional_start_active
        ON appointments (professional_id, start_time)
        WHERE status <> 'cancelled'
    `).Error; err != nil {
		return fmt.Errorf("booking index: %w", err)
	}

	if err := db.Exec(`
        UPDATE salons
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, defaultTimezone).Error; err != nil {
		return fmt.Errorf("backfill timezone: %w", err)
	}

	return nil
}

// ensureOverlapExclusion rejects overlapping active appointments of one
// professional inside postgres itself (SQLSTATE 23P01).
func ensureOverlapExclusion(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	return db.Exec(`
        DO $$
        BEGIN
            IF NOT EXISTS (
                SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
            ) THEN
                ALTER TABLE appointments
                ADD CONSTRAINT appointments_no_overlap
                EXCLUDE USING gist (
                    professional_id WITH =,
                    tstzrange(start_time, end_time, '[)') WITH &&
                ) WHERE (status <> 'cancelled');
            END IF;
        END $$;
    `).Error
}
