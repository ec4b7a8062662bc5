package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/adapter"
	"classified-marketplace/internal/domain/ports/repository"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase manages the membership plan catalog. Reads are public; writes
// require admin rights.
type PlanUseCase interface {
	Create(ctx context.Context, adminID, name string, durationMonths, adQuota int, priceLKR int64) (*model.MembershipPlan, error)
	Get(ctx context.Context, id string) (*model.MembershipPlan, error)
	List(ctx context.Context) ([]*model.MembershipPlan, error)
	Delete(ctx context.Context, adminID, id string) error
}

type planUC struct {
	repo  repository.MembershipPlanRepository
	authz adapter.Authorizer
	log   *zerolog.Logger
}

func NewPlanUseCase(repo repository.MembershipPlanRepository, authz adapter.Authorizer, logger *zerolog.Logger) *planUC {
	return &planUC{repo: repo, authz: authz, log: logger}
}

func (uc *planUC) Create(ctx context.Context, adminID, name string, durationMonths, adQuota int, priceLKR int64) (*model.MembershipPlan, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	plan, err := model.NewMembershipPlan(uuid.NewString(), name, durationMonths, adQuota, priceLKR)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	uc.log.Info().Str("plan_id", plan.ID).Str("name", plan.Name).Msg("plan created")
	return plan, nil
}

func (uc *planUC) Get(ctx context.Context, id string) (*model.MembershipPlan, error) {
	return uc.repo.FindByID(ctx, repository.NoTX, id)
}

func (uc *planUC) List(ctx context.Context) ([]*model.MembershipPlan, error) {
	return uc.repo.ListAll(ctx, repository.NoTX)
}

func (uc *planUC) Delete(ctx context.Context, adminID, id string) error {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, repository.NoTX, id)
}

func (uc *planUC) requireAdmin(ctx context.Context, adminID string) error {
	ok, err := uc.authz.IsAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}
