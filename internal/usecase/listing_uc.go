// File: internal/usecase/listing_uc.go
package usecase

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/adapter"
	"classified-marketplace/internal/domain/ports/repository"
)

// idEntropy is process-wide and monotonic, so IDs minted within the same
// millisecond are still unique and sortable.
var idEntropy = &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(crand.Reader, 0)}

func newULID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), idEntropy).String()
}

// Compile-time check
var _ ListingUseCase = (*listingUC)(nil)

// defaultFreeAdQuota applies to users without an active membership.
const defaultFreeAdQuota = 5

// NewAdInput is the submission payload for a classified listing. Images arrive
// as browser data URLs and are stored in the blob store before the record is
// written.
type NewAdInput struct {
	Title         string
	Description   string
	Price         int64
	CategoryID    string
	SubCategoryID string
	District      string
	PhoneNumber   string
	ImageDataURLs []string
}

// AdFilter combines the store-level equality predicates with the in-memory
// post-fetch predicates (free-text substring, sub-category, price range) the
// store cannot express.
type AdFilter struct {
	CategoryID    string
	District      string
	SubCategoryID string
	Search        string
	MinPrice      int64
	MaxPrice      int64 // 0 = unbounded
	Limit         int
}

type ListingUseCase interface {
	CreateAd(ctx context.Context, userID string, in NewAdInput) (*model.Ad, error)
	GetAd(ctx context.Context, adID string) (*model.Ad, error)
	ListAds(ctx context.Context, f AdFilter) ([]*model.Ad, error)
	ListMyAds(ctx context.Context, userID string) ([]*model.Ad, error)
}

type listingUC struct {
	ads         repository.AdRepository
	memberships repository.MembershipRepository
	plans       repository.MembershipPlanRepository
	blobs       adapter.BlobStore
	log         *zerolog.Logger

	now func() time.Time
}

func NewListingUseCase(
	ads repository.AdRepository,
	memberships repository.MembershipRepository,
	plans repository.MembershipPlanRepository,
	blobs adapter.BlobStore,
	logger *zerolog.Logger,
) *listingUC {
	return &listingUC{ads: ads, memberships: memberships, plans: plans, blobs: blobs, log: logger, now: time.Now}
}

func (u *listingUC) CreateAd(ctx context.Context, userID string, in NewAdInput) (*model.Ad, error) {
	if userID == "" || in.Title == "" || in.CategoryID == "" || in.Price < 0 {
		return nil, domain.ErrInvalidArgument
	}

	quota, err := u.adQuota(ctx, userID)
	if err != nil {
		return nil, err
	}
	used, err := u.ads.CountByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	if used >= quota {
		return nil, fmt.Errorf("ad quota of %d reached: %w", quota, domain.ErrQuotaExceeded)
	}

	now := u.now()
	id := newULID(now)

	refs := make([]string, 0, len(in.ImageDataURLs))
	for i, dataURL := range in.ImageDataURLs {
		ref, err := u.blobs.PutDataURL(ctx, fmt.Sprintf("ads/%s/%d", id, i), dataURL)
		if err != nil {
			return nil, fmt.Errorf("upload ad image: %w", err)
		}
		refs = append(refs, ref)
	}

	ad := &model.Ad{
		ID:            id,
		UserID:        userID,
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		CategoryID:    in.CategoryID,
		SubCategoryID: in.SubCategoryID,
		District:      in.District,
		ImageRefs:     refs,
		PhoneNumber:   in.PhoneNumber,
		Status:        model.AdStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.ads.Save(ctx, repository.NoTX, ad); err != nil {
		return nil, err
	}
	u.log.Info().Str("ad_id", ad.ID).Str("category", ad.CategoryID).Msg("ad created")
	return ad, nil
}

func (u *listingUC) GetAd(ctx context.Context, adID string) (*model.Ad, error) {
	return u.ads.FindByID(ctx, repository.NoTX, adID)
}

// ListAds fetches the candidate set with the store's equality predicates and
// then applies the remaining predicates in memory.
func (u *listingUC) ListAds(ctx context.Context, f AdFilter) ([]*model.Ad, error) {
	candidates, err := u.ads.List(ctx, repository.NoTX, repository.AdQuery{
		CategoryID: f.CategoryID,
		District:   f.District,
		Status:     model.AdStatusActive,
		Limit:      f.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := candidates[:0]
	for _, ad := range candidates {
		if matchAd(ad, f) {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (u *listingUC) ListMyAds(ctx context.Context, userID string) ([]*model.Ad, error) {
	return u.ads.ListByUser(ctx, repository.NoTX, userID)
}

// matchAd applies the in-memory predicates the store cannot evaluate.
func matchAd(ad *model.Ad, f AdFilter) bool {
	if f.SubCategoryID != "" && ad.SubCategoryID != f.SubCategoryID {
		return false
	}
	if f.MinPrice > 0 && ad.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && ad.Price > f.MaxPrice {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(ad.Title), needle) &&
			!strings.Contains(strings.ToLower(ad.Description), needle) {
			return false
		}
	}
	return true
}

// adQuota resolves the effective ad quota: active membership plan quota, or
// the free default.
func (u *listingUC) adQuota(ctx context.Context, userID string) (int, error) {
	memberships, err := u.memberships.FindByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return 0, err
	}
	now := u.now()
	quota := defaultFreeAdQuota
	for _, m := range memberships {
		if m.Status != model.MembershipStatusActive || m.Expired(now) {
			continue
		}
		plan, err := u.plans.FindByID(ctx, repository.NoTX, m.PlanID)
		if err != nil {
			continue
		}
		if plan.AdQuota > quota {
			quota = plan.AdQuota
		}
	}
	return quota, nil
}
