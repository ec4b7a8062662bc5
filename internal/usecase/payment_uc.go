// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/adapter"
	"classified-marketplace/internal/domain/ports/repository"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase handles user-side manual payment submissions. The slip image
// goes to the blob store; the record starts Pending and is mutated only by the
// approval workflow.
type PaymentUseCase interface {
	SubmitMembershipPayment(ctx context.Context, userID, planID, method, slipDataURL string) (*model.Payment, error)
	SubmitBannerPayment(ctx context.Context, userID, bannerID string, amount int64, method, slipDataURL string) (*model.Payment, error)
	ListMyPayments(ctx context.Context, userID string) ([]*model.Payment, error)
	ListPending(ctx context.Context, adminID string, limit int) ([]*model.Payment, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	plans    repository.MembershipPlanRepository
	banners  repository.BannerRepository
	blobs    adapter.BlobStore
	authz    adapter.Authorizer
	log      *zerolog.Logger

	now func() time.Time
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	plans repository.MembershipPlanRepository,
	banners repository.BannerRepository,
	blobs adapter.BlobStore,
	authz adapter.Authorizer,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{payments: payments, plans: plans, banners: banners, blobs: blobs, authz: authz, log: logger, now: time.Now}
}

func (u *paymentUC) SubmitMembershipPayment(ctx context.Context, userID, planID, method, slipDataURL string) (*model.Payment, error) {
	if userID == "" || planID == "" || slipDataURL == "" {
		return nil, domain.ErrInvalidArgument
	}
	plan, err := u.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnknownPlan
		}
		return nil, err
	}
	return u.submit(ctx, userID, plan.PriceLKR, method, slipDataURL, model.PaymentForMembership, plan.ID)
}

func (u *paymentUC) SubmitBannerPayment(ctx context.Context, userID, bannerID string, amount int64, method, slipDataURL string) (*model.Payment, error) {
	if userID == "" || bannerID == "" || slipDataURL == "" || amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	b, err := u.banners.FindByID(ctx, repository.NoTX, bannerID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return u.submit(ctx, userID, amount, method, slipDataURL, model.PaymentForBanner, b.ID)
}

func (u *paymentUC) submit(ctx context.Context, userID string, amount int64, method, slipDataURL string, purpose model.PaymentPurpose, targetID string) (*model.Payment, error) {
	now := u.now()
	id := uuid.NewString()

	slipRef, err := u.blobs.PutDataURL(ctx, fmt.Sprintf("slips/%s", id), slipDataURL)
	if err != nil {
		return nil, fmt.Errorf("upload payment slip: %w", err)
	}

	p := &model.Payment{
		ID:         id,
		UserID:     userID,
		Amount:     amount,
		Method:     method,
		SlipRef:    slipRef,
		Status:     model.PaymentStatusPending,
		PaymentFor: purpose,
		TargetID:   targetID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.payments.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	u.log.Info().Str("payment_id", p.ID).Str("purpose", string(purpose)).Int64("amount", amount).Msg("payment submitted")
	return p, nil
}

func (u *paymentUC) ListMyPayments(ctx context.Context, userID string) ([]*model.Payment, error) {
	return u.payments.ListByUser(ctx, repository.NoTX, userID)
}

func (u *paymentUC) ListPending(ctx context.Context, adminID string, limit int) ([]*model.Payment, error) {
	ok, err := u.authz.IsAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return u.payments.ListByStatus(ctx, repository.NoTX, model.PaymentStatusPending, limit)
}
