package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User is a participant identity. Name is the stable identifier the
// scheduling core keys intervals and ownership on.
//
// IsReady is a single flag per identity, not per session: a user who
// marks themselves ready is ready in every session they belong to.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'member'" json:"role"`
	IsReady      bool      `gorm:"not null;default:false" json:"is_ready"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

var userNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,30}$`)

// ValidUserName reports whether name is 3-30 characters of letters,
// digits, underscore or hyphen.
func ValidUserName(name string) bool {
	return userNamePattern.MatchString(name)
}
