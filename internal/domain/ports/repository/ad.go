package repository

import (
	"context"

	"classified-marketplace/internal/domain/model"
)

// AdQuery carries the store-level predicates for listing ads. Only single
// field equality/range filters are supported by the store; free-text and
// sub-category matching happen in memory after fetch.
type AdQuery struct {
	CategoryID string
	District   string
	Status     model.AdStatus
	Limit      int
}

type AdRepository interface {
	Save(ctx context.Context, tx Tx, ad *model.Ad) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Ad, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.AdStatus) error
	Delete(ctx context.Context, tx Tx, id string) error
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Ad, error)
	// List returns ads matching the equality predicates, newest first.
	List(ctx context.Context, tx Tx, q AdQuery) ([]*model.Ad, error)
	CountByUser(ctx context.Context, tx Tx, userID string) (int, error)
}
