package repository

import (
	"context"

	"optimeet/meethub/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByName(ctx context.Context, name string) (*model.User, error)
	// ListByNames returns users whose name is in names, in no
	// particular order. Missing names are simply absent from the result.
	ListByNames(ctx context.Context, names []string) ([]model.User, error)
	// UpdateReady flips the identity-level ready flag. Returns
	// gorm.ErrRecordNotFound if the name is unknown.
	UpdateReady(ctx context.Context, name string, ready bool) error
}
