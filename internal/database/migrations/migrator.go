package migrations

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Migration is one idempotence-tracked schema change.
type Migration struct {
	ID string
	Up func(*gorm.DB) error
}

// MigrationRecord tracks applied migrations.
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	AppliedAt time.Time
}

var registry = make(map[string]Migration)

// Register adds a migration to the registry. IDs are applied in
// lexicographic order.
func Register(id string, up func(*gorm.DB) error) {
	registry[id] = Migration{ID: id, Up: up}
}

// Run executes all pending migrations in order.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		var count int64
		if err := db.Model(&MigrationRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration %s: %w", id, err)
		}
		if count > 0 {
			continue
		}

		if err := registry[id].Up(db); err != nil {
			return fmt.Errorf("migration %s failed: %w", id, err)
		}
		if err := db.Create(&MigrationRecord{ID: id, AppliedAt: time.Now()}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", id, err)
		}
	}

	return nil
}
