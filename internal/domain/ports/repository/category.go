package repository

import (
	"context"

	"classified-marketplace/internal/domain/model"
)

type CategoryRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Category) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Category, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Category, error)
}
