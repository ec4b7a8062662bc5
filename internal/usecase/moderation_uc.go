// File: internal/usecase/moderation_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/adapter"
	"classified-marketplace/internal/domain/ports/repository"
)

// Compile-time check
var _ ModerationUseCase = (*moderationUC)(nil)

// ModerationUseCase covers the direct admin transitions that run outside the
// payment workflow: ad suspend/activate/delete and banner approve/reject.
type ModerationUseCase interface {
	ToggleAdStatus(ctx context.Context, adminID, adID string) (*model.Ad, error)
	DeleteAd(ctx context.Context, adminID, adID string) error
	// ApproveBannerDirect activates a banner without a linked payment. The
	// duration code is a required argument; there is no implicit default term.
	ApproveBannerDirect(ctx context.Context, adminID, bannerID, durationCode string) (*model.Banner, error)
	RejectBanner(ctx context.Context, adminID, bannerID string) (*model.Banner, error)
}

type moderationUC struct {
	ads     repository.AdRepository
	banners repository.BannerRepository
	tm      repository.TransactionManager
	authz   adapter.Authorizer
	blobs   adapter.BlobStore
	log     *zerolog.Logger

	now func() time.Time
}

func NewModerationUseCase(
	ads repository.AdRepository,
	banners repository.BannerRepository,
	tm repository.TransactionManager,
	authz adapter.Authorizer,
	blobs adapter.BlobStore,
	logger *zerolog.Logger,
) *moderationUC {
	return &moderationUC{ads: ads, banners: banners, tm: tm, authz: authz, blobs: blobs, log: logger, now: time.Now}
}

// ToggleAdStatus flips active <-> suspended. The read and the write run in one
// transaction with a row lock, so two admins toggling at once cannot lose an
// update.
func (u *moderationUC) ToggleAdStatus(ctx context.Context, adminID, adID string) (*model.Ad, error) {
	if err := u.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var toggled *model.Ad
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		ad, err := u.ads.FindByID(ctx, tx, adID)
		if err != nil {
			return err
		}
		next := ad.Status.Toggled()
		if err := u.ads.UpdateStatus(ctx, tx, ad.ID, next); err != nil {
			return err
		}
		ad.Status = next
		ad.UpdatedAt = u.now()
		toggled = ad
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("ad_id", toggled.ID).Str("status", string(toggled.Status)).Msg("ad status toggled")
	return toggled, nil
}

// DeleteAd removes the listing record and then its image blobs. Blob removal
// is best effort: the record is already gone, so a failed object delete is
// logged rather than surfaced.
func (u *moderationUC) DeleteAd(ctx context.Context, adminID, adID string) error {
	if err := u.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	ad, err := u.ads.FindByID(ctx, repository.NoTX, adID)
	if err != nil {
		return err
	}
	if err := u.ads.Delete(ctx, repository.NoTX, adID); err != nil {
		return err
	}
	for _, ref := range ad.ImageRefs {
		if err := u.blobs.Delete(ctx, ref); err != nil {
			u.log.Warn().Err(err).Str("ad_id", adID).Str("ref", ref).Msg("ad image blob not deleted")
		}
	}
	u.log.Info().Str("ad_id", adID).Msg("ad deleted")
	return nil
}

func (u *moderationUC) ApproveBannerDirect(ctx context.Context, adminID, bannerID, durationCode string) (*model.Banner, error) {
	if err := u.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	count, unit, err := domain.ParseDurationCode(durationCode)
	if err != nil {
		return nil, err
	}

	var activated *model.Banner
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		b, err := u.banners.FindByID(ctx, tx, bannerID)
		if err != nil {
			return err
		}
		if b.Status == model.BannerStatusRejected {
			return domain.ErrAlreadyProcessed
		}
		start := u.now()
		expiry, err := domain.ComputeExpiry(start, unit, count)
		if err != nil {
			return err
		}
		if err := u.banners.Activate(ctx, tx, b.ID, start, expiry); err != nil {
			return err
		}
		b.Status = model.BannerStatusActive
		b.StartDate = &start
		b.ExpiryDate = &expiry
		activated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("banner_id", activated.ID).Time("expiry", *activated.ExpiryDate).Msg("banner approved")
	return activated, nil
}

func (u *moderationUC) RejectBanner(ctx context.Context, adminID, bannerID string) (*model.Banner, error) {
	if err := u.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var rejected *model.Banner
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		b, err := u.banners.FindByID(ctx, tx, bannerID)
		if err != nil {
			return err
		}
		if b.Status != model.BannerStatusPending {
			return domain.ErrAlreadyProcessed
		}
		if err := u.banners.UpdateStatus(ctx, tx, b.ID, model.BannerStatusRejected); err != nil {
			return err
		}
		b.Status = model.BannerStatusRejected
		rejected = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("banner_id", rejected.ID).Msg("banner rejected")
	return rejected, nil
}

func (u *moderationUC) requireAdmin(ctx context.Context, adminID string) error {
	ok, err := u.authz.IsAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}
