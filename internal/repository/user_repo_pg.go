package repository

import (
	"context"

	"gorm.io/gorm"

	"optimeet/meethub/internal/model"
)

type pgUserRepository struct {
	db *gorm.DB
}

func NewPGUserRepository(db *gorm.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *pgUserRepository) GetByName(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *pgUserRepository) ListByNames(ctx context.Context, names []string) ([]model.User, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var users []model.User
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *pgUserRepository) UpdateReady(ctx context.Context, name string, ready bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("name = ?", name).
		UpdateColumn("is_ready", ready)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
