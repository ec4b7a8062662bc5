package repository

import (
	"context"

	"classified-marketplace/internal/domain/model"
)

// MembershipPlanRepository is the port for the plan catalog.
type MembershipPlanRepository interface {
	Save(ctx context.Context, tx Tx, plan *model.MembershipPlan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.MembershipPlan, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.MembershipPlan, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
