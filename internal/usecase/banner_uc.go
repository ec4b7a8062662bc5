// File: internal/usecase/banner_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/adapter"
	"classified-marketplace/internal/domain/ports/repository"
)

// Compile-time check
var _ BannerUseCase = (*bannerUC)(nil)

type NewBannerInput struct {
	Description  string
	Position     string
	CategoryID   string
	DurationCode string // validated at submission so approval never meets a malformed code
	ImageDataURL string
}

type BannerUseCase interface {
	SubmitBanner(ctx context.Context, userID string, in NewBannerInput) (*model.Banner, error)
	GetBanner(ctx context.Context, bannerID string) (*model.Banner, error)
	// ListActive returns banners for a position that are Active and not past
	// expiry at read time.
	ListActive(ctx context.Context, position string) ([]*model.Banner, error)
	ListByStatus(ctx context.Context, status model.BannerStatus, limit int) ([]*model.Banner, error)
}

type bannerUC struct {
	banners repository.BannerRepository
	blobs   adapter.BlobStore
	log     *zerolog.Logger

	now func() time.Time
}

func NewBannerUseCase(banners repository.BannerRepository, blobs adapter.BlobStore, logger *zerolog.Logger) *bannerUC {
	return &bannerUC{banners: banners, blobs: blobs, log: logger, now: time.Now}
}

// SubmitBanner stores the banner image and creates the record in Pending state
// with nil dates. Dates are populated only on activation.
func (u *bannerUC) SubmitBanner(ctx context.Context, userID string, in NewBannerInput) (*model.Banner, error) {
	if userID == "" || in.Position == "" || in.ImageDataURL == "" {
		return nil, domain.ErrInvalidArgument
	}
	if _, _, err := domain.ParseDurationCode(in.DurationCode); err != nil {
		return nil, err
	}

	now := u.now()
	id := newULID(now)

	ref, err := u.blobs.PutDataURL(ctx, fmt.Sprintf("banners/%s", id), in.ImageDataURL)
	if err != nil {
		return nil, fmt.Errorf("upload banner image: %w", err)
	}

	b := &model.Banner{
		ID:           id,
		UserID:       userID,
		ImageRef:     ref,
		Description:  in.Description,
		Position:     in.Position,
		CategoryID:   in.CategoryID,
		DurationCode: in.DurationCode,
		Status:       model.BannerStatusPending,
		CreatedAt:    now,
	}
	if err := u.banners.Save(ctx, repository.NoTX, b); err != nil {
		return nil, err
	}
	u.log.Info().Str("banner_id", b.ID).Str("position", b.Position).Msg("banner submitted")
	return b, nil
}

func (u *bannerUC) GetBanner(ctx context.Context, bannerID string) (*model.Banner, error) {
	return u.banners.FindByID(ctx, repository.NoTX, bannerID)
}

func (u *bannerUC) ListActive(ctx context.Context, position string) ([]*model.Banner, error) {
	now := u.now()
	banners, err := u.banners.ListActiveByPosition(ctx, repository.NoTX, position, now)
	if err != nil {
		return nil, err
	}
	// Belt and braces: the repo already filters on expiry, but the expiry
	// condition is a read-time contract, so enforce it here too.
	out := banners[:0]
	for _, b := range banners {
		if !b.Expired(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (u *bannerUC) ListByStatus(ctx context.Context, status model.BannerStatus, limit int) ([]*model.Banner, error) {
	return u.banners.ListByStatus(ctx, repository.NoTX, status, limit)
}
