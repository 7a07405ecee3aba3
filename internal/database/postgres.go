package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/carcarahealth/glica/internal/config"
	"github.com/carcarahealth/glica/internal/database/migrations"
)

// HistoryRecord is the stored shape of a HistoryEntry: the clinical payloads
// are opaque JSONB documents, with the patient name and save time lifted
// into columns for querying. There is no update path for patient/report;
// adjustments only grows via atomic appends.
type HistoryRecord struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	PatientName string    `gorm:"index"`
	Patient     []byte    `gorm:"type:jsonb"`
	Report      []byte    `gorm:"type:jsonb"`
	Adjustments []byte    `gorm:"type:jsonb;default:'[]'"`
	SavedAt     time.Time `gorm:"index"`
}

// NewPostgresDB opens the connection and brings the schema up to date.
func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&HistoryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
