package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"optimeet/meethub/internal/model"
)

type pgSessionRepository struct {
	db *gorm.DB
}

func NewPGSessionRepository(db *gorm.DB) SessionRepository {
	return &pgSessionRepository{db: db}
}

func (r *pgSessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *pgSessionRepository) GetByCode(ctx context.Context, code string) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *pgSessionRepository) UpdateExpiry(ctx context.Context, code string, expiresAt time.Time) (*model.Session, error) {
	var session model.Session
	res := r.db.WithContext(ctx).
		Model(&session).
		Clauses(clause.Returning{}).
		Where("code = ?", code).
		UpdateColumn("expires_at", expiresAt)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &session, nil
}

func (r *pgSessionRepository) ListExpiredCodes(ctx context.Context, now time.Time) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("expires_at < ?", now).
		Pluck("code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *pgSessionRepository) DeleteByCodes(ctx context.Context, codes []string) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("code IN ?", codes).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
