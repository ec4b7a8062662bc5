package repository

import (
	"context"

	"classified-marketplace/internal/domain/model"
)

// PaymentRepository is the port for manual payment submissions.
//
// FindByID takes a `SELECT ... FOR UPDATE` row lock when called with a
// transaction handle, so the approval flow re-reads status immediately before
// its conditional write.
type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	// UpdateStatusIfPending transitions Pending -> newStatus and reports
	// whether a row was actually transitioned. false with nil error means the
	// payment was already processed.
	UpdateStatusIfPending(ctx context.Context, tx Tx, id string, newStatus model.PaymentStatus) (bool, error)
	ListByStatus(ctx context.Context, tx Tx, status model.PaymentStatus, limit int) ([]*model.Payment, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Payment, error)
	SumApprovedByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
