package model

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityInterval is one (day-of-week, start, end) claim of free
// time by one user within one session. Start and end are zero-padded
// "HH:MM" strings, so lexicographic order matches clock order.
//
// The exact (session_code, user_name, day_of_week, start_time, end_time)
// tuple is unique; the composite index created in AutoMigrate makes the
// insert the authoritative de-duplication check.
type AvailabilityInterval struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionCode string    `gorm:"type:varchar(8);not null;index" json:"session_code"`
	UserName    string    `gorm:"type:varchar(30);not null;index" json:"user_name"`
	DayOfWeek   int       `gorm:"type:smallint;not null" json:"day_of_week"`
	StartTime   string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string    `gorm:"type:varchar(5);not null" json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AvailabilityInterval) TableName() string { return "availability_intervals" }

// ValidDayOfWeek reports whether day is in the 0 (Sunday) to 6 range.
func ValidDayOfWeek(day int) bool {
	return day >= 0 && day <= 6
}
