package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase aggregates the admin dashboard numbers.
type StatsUseCase interface {
	Totals(ctx context.Context) (users int, activeByPlan map[string]int, pendingPayments int, err error)
	Revenue(ctx context.Context) (week int64, month int64, year int64, err error)
}

type statsUC struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	payments    repository.PaymentRepository

	log *zerolog.Logger
}

func NewStatsUseCase(users repository.UserRepository, memberships repository.MembershipRepository, payments repository.PaymentRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{users: users, memberships: memberships, payments: payments, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (int, map[string]int, int, error) {
	users, err := s.users.CountUsers(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, 0, err
	}
	active, err := s.memberships.CountActiveByPlan(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, 0, err
	}
	pending, err := s.payments.ListByStatus(ctx, repository.NoTX, model.PaymentStatusPending, 0)
	if err != nil {
		return 0, nil, 0, err
	}
	return users, active, len(pending), nil
}

func (s *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	w, err := s.payments.SumApprovedByPeriod(ctx, repository.NoTX, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	m, err := s.payments.SumApprovedByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := s.payments.SumApprovedByPeriod(ctx, repository.NoTX, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return w, m, y, nil
}
