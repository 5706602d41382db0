package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"optimeet/meethub/internal/model"
)

type pgIntervalRepository struct {
	db *gorm.DB
}

func NewPGIntervalRepository(db *gorm.DB) IntervalRepository {
	return &pgIntervalRepository{db: db}
}

func (r *pgIntervalRepository) Create(ctx context.Context, interval *model.AvailabilityInterval) error {
	return r.db.WithContext(ctx).Create(interval).Error
}

func (r *pgIntervalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilityInterval, error) {
	var interval model.AvailabilityInterval
	if err := r.db.WithContext(ctx).First(&interval, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &interval, nil
}

func (r *pgIntervalRepository) ListByUser(ctx context.Context, userName string) ([]model.AvailabilityInterval, error) {
	var intervals []model.AvailabilityInterval
	err := r.db.WithContext(ctx).
		Where("user_name = ?", userName).
		Order("day_of_week, start_time").
		Find(&intervals).Error
	if err != nil {
		return nil, err
	}
	return intervals, nil
}

func (r *pgIntervalRepository) ListBySession(ctx context.Context, sessionCode string) ([]model.AvailabilityInterval, error) {
	var intervals []model.AvailabilityInterval
	err := r.db.WithContext(ctx).
		Where("session_code = ?", sessionCode).
		Order("day_of_week, start_time").
		Find(&intervals).Error
	if err != nil {
		return nil, err
	}
	return intervals, nil
}

func (r *pgIntervalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AvailabilityInterval{}, "id = ?", id).Error
}

func (r *pgIntervalRepository) DeleteBySessionCodes(ctx context.Context, codes []string) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("session_code IN ?", codes).Delete(&model.AvailabilityInterval{})
	return res.RowsAffected, res.Error
}
