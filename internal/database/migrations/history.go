package migrations

import "gorm.io/gorm"

func init() {
	// History is listed newest-first and looked up by patient name for the
	// duplicate guard; both paths need an index beyond what AutoMigrate
	// creates.
	Register("001_history_listing_indexes", func(db *gorm.DB) error {
		if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_history_records_saved_at_desc ON history_records (saved_at DESC)`).Error; err != nil {
			return err
		}
		return db.Exec(`CREATE INDEX IF NOT EXISTS idx_history_records_patient_name ON history_records (patient_name)`).Error
	})
}
