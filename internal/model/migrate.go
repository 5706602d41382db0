package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Session{},
		&AvailabilityInterval{},
	); err != nil {
		return err
	}

	// Exact-tuple uniqueness: the insert, not application logic, is the
	// authoritative duplicate check for intervals.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_intervals_exact_tuple " +
			"ON availability_intervals (session_code, user_name, day_of_week, start_time, end_time)",
	).Error
}
