package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionCodeLength is the fixed length of a session join code.
const SessionCodeLength = 8

// Session is a time-boxed namespace under which participants record
// weekly availability. The code is immutable once assigned and unique
// among live sessions (enforced by the database).
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code      string    `gorm:"type:varchar(8);uniqueIndex;not null" json:"code"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func (Session) TableName() string { return "sessions" }

// Expired reports whether the session's TTL has elapsed at the given
// instant. Expiry is a derived state; nothing is stored when it flips.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
