package web

import (
	"context"
	"sync"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/repository"
)

// --- Mock Repositories (Ports) ---

type mockUserRepo struct {
	repository.UserRepository // Embed interface for forward compatibility
	mu                        sync.Mutex
	users                     []*model.User
	CountError                error // To simulate errors
}

func (m *mockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

type mockMembershipRepo struct {
	repository.MembershipRepository // Embed interface
	activeByPlan                    map[string]int
}

func (m *mockMembershipRepo) CountActiveByPlan(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	if m.activeByPlan == nil {
		return make(map[string]int), nil
	}
	return m.activeByPlan, nil
}

type mockPaymentRepo struct {
	repository.PaymentRepository // Embed interface
	pending                      []*model.Payment
	SumError                     error
}

func (m *mockPaymentRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.PaymentStatus, limit int) ([]*model.Payment, error) {
	var out []*model.Payment
	for _, p := range m.pending {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) SumApprovedByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	if m.SumError != nil {
		return 0, m.SumError
	}
	switch period {
	case "week":
		return 1500, nil
	case "month":
		return 9000, nil
	case "year":
		return 120000, nil
	}
	return 0, nil
}

type mockPlanRepo struct {
	repository.MembershipPlanRepository // Embed interface
	mu                                  sync.Mutex
	plans                               map[string]*model.MembershipPlan
	ListAllError                        error
	SaveError                           error
}

func (m *mockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MembershipPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if plan, ok := m.plans[id]; ok {
		return plan, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MembershipPlan, error) {
	if m.ListAllError != nil {
		return nil, m.ListAllError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	plans := make([]*model.MembershipPlan, 0, len(m.plans))
	for _, p := range m.plans {
		plans = append(plans, p)
	}
	return plans, nil
}

func (m *mockPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.MembershipPlan) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.plans == nil {
		m.plans = make(map[string]*model.MembershipPlan)
	}
	m.plans[plan.ID] = plan
	return nil
}
