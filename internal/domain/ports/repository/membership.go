package repository

import (
	"context"

	"classified-marketplace/internal/domain/model"
)

// MembershipRepository is the port for membership entitlements. Upsert is
// keyed by the deterministic membership id, so re-approval of the same plan
// overwrites dates in place rather than duplicating rows.
type MembershipRepository interface {
	Upsert(ctx context.Context, tx Tx, m *model.Membership) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Membership, error)
	FindByUser(ctx context.Context, tx Tx, userID string) ([]*model.Membership, error)
	CountActiveByPlan(ctx context.Context, tx Tx) (map[string]int, error)
}
