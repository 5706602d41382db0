package repository

import (
	"context"
	"time"

	"optimeet/meethub/internal/model"
)

type SessionRepository interface {
	// Create inserts the session. A code collision with a live session
	// surfaces as gorm.ErrDuplicatedKey; the insert itself is the
	// uniqueness check.
	Create(ctx context.Context, session *model.Session) error
	GetByCode(ctx context.Context, code string) (*model.Session, error)
	// UpdateExpiry pushes expires_at forward and returns the updated
	// row in one round trip. Returns gorm.ErrRecordNotFound if no
	// session has the code.
	UpdateExpiry(ctx context.Context, code string, expiresAt time.Time) (*model.Session, error)
	// ListExpiredCodes returns codes of sessions whose TTL elapsed
	// before now.
	ListExpiredCodes(ctx context.Context, now time.Time) ([]string, error)
	// DeleteByCodes physically removes the named sessions and returns
	// the number of rows deleted.
	DeleteByCodes(ctx context.Context, codes []string) (int64, error)
}
