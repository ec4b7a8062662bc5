package repository

import (
	"context"
	"time"

	"classified-marketplace/internal/domain/model"
)

// BannerRepository is the port for banner-slot records.
//
// Activate is the only write path that sets StartDate/ExpiryDate; a banner
// lacking both must be Pending.
type BannerRepository interface {
	Save(ctx context.Context, tx Tx, b *model.Banner) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Banner, error)
	Activate(ctx context.Context, tx Tx, id string, start, expiry time.Time) error
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.BannerStatus) error
	// ListActiveByPosition returns Active banners whose expiry is after `now`;
	// expiry is a read-time condition, the stored status is untouched.
	ListActiveByPosition(ctx context.Context, tx Tx, position string, now time.Time) ([]*model.Banner, error)
	ListByStatus(ctx context.Context, tx Tx, status model.BannerStatus, limit int) ([]*model.Banner, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
