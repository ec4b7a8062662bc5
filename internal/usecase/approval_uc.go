// File: internal/usecase/approval_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/adapter"
	"classified-marketplace/internal/domain/ports/repository"
	"classified-marketplace/internal/infra/logging"
)

// Compile-time check
var _ ApprovalUseCase = (*approvalUC)(nil)

// ApprovalUseCase is the payment approval state machine. A pending payment is
// either approved (activating the paid entitlement) or rejected; both are
// terminal. Approval commits the payment-status write and the entitlement
// write as one transaction, so no partial application is ever observable.
type ApprovalUseCase interface {
	Approve(ctx context.Context, adminID, paymentID string) (*model.Payment, error)
	Reject(ctx context.Context, adminID, paymentID string) (*model.Payment, error)
}

type approvalUC struct {
	payments    repository.PaymentRepository
	memberships repository.MembershipRepository
	banners     repository.BannerRepository
	plans       repository.MembershipPlanRepository
	tm          repository.TransactionManager
	authz       adapter.Authorizer
	notifier    adapter.Notifier
	log         *zerolog.Logger

	now func() time.Time // injectable for deterministic date tests
}

func NewApprovalUseCase(
	payments repository.PaymentRepository,
	memberships repository.MembershipRepository,
	banners repository.BannerRepository,
	plans repository.MembershipPlanRepository,
	tm repository.TransactionManager,
	authz adapter.Authorizer,
	notifier adapter.Notifier,
	logger *zerolog.Logger,
) *approvalUC {
	return &approvalUC{
		payments:    payments,
		memberships: memberships,
		banners:     banners,
		plans:       plans,
		tm:          tm,
		authz:       authz,
		notifier:    notifier,
		log:         logger,
		now:         time.Now,
	}
}

// Approve loads the pending payment, activates the entitlement selected by its
// purpose, and flips the payment to Approved. All writes happen inside one
// transaction; the payment row is re-read with a row lock immediately before
// the conditional status write, which closes the check-then-act race against a
// concurrent admin session.
func (u *approvalUC) Approve(ctx context.Context, adminID, paymentID string) (*model.Payment, error) {
	defer logging.TraceDuration(u.log, "ApprovalUC.Approve")()
	if err := u.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var approved *model.Payment
	var payerID string
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		payerID = p.UserID
		if p.Status != model.PaymentStatusPending {
			return domain.ErrAlreadyProcessed
		}

		now := u.now()
		switch p.PaymentFor {
		case model.PaymentForMembership:
			if err := u.activateMembership(ctx, tx, p, now); err != nil {
				return err
			}
		case model.PaymentForBanner:
			if err := u.activateBanner(ctx, tx, p, now); err != nil {
				return err
			}
		default:
			return domain.ErrInvalidArgument
		}

		ok, err := u.payments.UpdateStatusIfPending(ctx, tx, p.ID, model.PaymentStatusApproved)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyProcessed
		}

		p.Status = model.PaymentStatusApproved
		p.ProcessedAt = &now
		p.UpdatedAt = now
		approved = p
		return nil
	})
	if err != nil {
		u.log.Warn().Err(err).Str("payment_id", paymentID).Str("admin_id", adminID).Msg("payment approval failed")
		u.notifier.NotifyFailure(ctx, payerID, domain.ErrorKind(err), err.Error())
		return nil, err
	}

	u.log.Info().Str("payment_id", approved.ID).Str("purpose", string(approved.PaymentFor)).Msg("payment approved")
	u.notifier.NotifyPaymentApproved(ctx, approved)
	return approved, nil
}

// Reject flips a pending payment to Rejected. No entitlement record is
// touched; a single conditional write inside the transaction is enough.
func (u *approvalUC) Reject(ctx context.Context, adminID, paymentID string) (*model.Payment, error) {
	defer logging.TraceDuration(u.log, "ApprovalUC.Reject")()
	if err := u.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var rejected *model.Payment
	var payerID string
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		payerID = p.UserID
		if p.Status != model.PaymentStatusPending {
			return domain.ErrAlreadyProcessed
		}

		ok, err := u.payments.UpdateStatusIfPending(ctx, tx, p.ID, model.PaymentStatusRejected)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyProcessed
		}

		now := u.now()
		p.Status = model.PaymentStatusRejected
		p.ProcessedAt = &now
		p.UpdatedAt = now
		rejected = p
		return nil
	})
	if err != nil {
		u.log.Warn().Err(err).Str("payment_id", paymentID).Str("admin_id", adminID).Msg("payment rejection failed")
		u.notifier.NotifyFailure(ctx, payerID, domain.ErrorKind(err), err.Error())
		return nil, err
	}

	u.log.Info().Str("payment_id", rejected.ID).Msg("payment rejected")
	u.notifier.NotifyPaymentRejected(ctx, rejected)
	return rejected, nil
}

// activateMembership upserts the (user, plan) membership with a fresh validity
// window. Re-approval of the same plan overwrites dates in place because the
// membership id is derived from the pair.
func (u *approvalUC) activateMembership(ctx context.Context, tx repository.Tx, p *model.Payment, now time.Time) error {
	plan, err := u.plans.FindByID(ctx, tx, p.TargetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnknownPlan
		}
		return err
	}
	expiry, err := domain.ComputeExpiry(now, domain.DurationUnitMonth, plan.DurationMonths)
	if err != nil {
		return err
	}
	m := &model.Membership{
		ID:         model.MembershipID(p.UserID, plan.ID),
		UserID:     p.UserID,
		PlanID:     plan.ID,
		StartDate:  now,
		ExpiryDate: expiry,
		Status:     model.MembershipStatusActive,
		CreatedAt:  now,
	}
	return u.memberships.Upsert(ctx, tx, m)
}

// activateBanner parses the banner's stored duration code and sets its
// validity window. A malformed stored code is a data error: it is logged with
// the offending record id and fails the approval instead of defaulting.
func (u *approvalUC) activateBanner(ctx context.Context, tx repository.Tx, p *model.Payment, now time.Time) error {
	b, err := u.banners.FindByID(ctx, tx, p.TargetID)
	if err != nil {
		return err
	}
	count, unit, err := domain.ParseDurationCode(b.DurationCode)
	if err != nil {
		u.log.Error().Str("banner_id", b.ID).Str("duration_code", b.DurationCode).Msg("stored banner duration code is malformed; manual correction required")
		return err
	}
	expiry, err := domain.ComputeExpiry(now, unit, count)
	if err != nil {
		return err
	}
	return u.banners.Activate(ctx, tx, b.ID, now, expiry)
}

func (u *approvalUC) requireAdmin(ctx context.Context, adminID string) error {
	ok, err := u.authz.IsAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}
