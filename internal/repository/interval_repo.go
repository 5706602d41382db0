package repository

import (
	"context"

	"github.com/google/uuid"

	"optimeet/meethub/internal/model"
)

type IntervalRepository interface {
	// Create inserts the interval. An exact-tuple duplicate surfaces as
	// gorm.ErrDuplicatedKey via the composite unique index.
	Create(ctx context.Context, interval *model.AvailabilityInterval) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilityInterval, error)
	// ListByUser returns all of one user's intervals across sessions,
	// ordered by day_of_week then start_time.
	ListByUser(ctx context.Context, userName string) ([]model.AvailabilityInterval, error)
	ListBySession(ctx context.Context, sessionCode string) ([]model.AvailabilityInterval, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteBySessionCodes removes all intervals attached to the named
	// sessions and returns the number of rows deleted.
	DeleteBySessionCodes(ctx context.Context, codes []string) (int64, error)
}
