// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/adapter"
	"classified-marketplace/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// fixedClock returns a clock function pinned to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// -----------------------------
// In-memory repositories
// -----------------------------

type memPaymentRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Payment

	SaveFunc                  func(ctx context.Context, tx repository.Tx, p *model.Payment) error
	FindByIDFunc              func(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error)
	UpdateStatusIfPendingFunc func(ctx context.Context, tx repository.Tx, id string, newStatus model.PaymentStatus) (bool, error)
}

var _ repository.PaymentRepository = (*memPaymentRepo)(nil)

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{store: make(map[string]*model.Payment)}
}

func (m *memPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id string, newStatus model.PaymentStatus) (bool, error) {
	if m.UpdateStatusIfPendingFunc != nil {
		return m.UpdateStatusIfPendingFunc(ctx, tx, id, newStatus)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = newStatus
	now := time.Now()
	p.ProcessedAt = &now
	p.UpdatedAt = now
	return true, nil
}

func (m *memPaymentRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.PaymentStatus, limit int) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memPaymentRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPaymentRepo) SumApprovedByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, p := range m.store {
		if p.Status == model.PaymentStatusApproved {
			sum += p.Amount
		}
	}
	return sum, nil
}

type memMembershipRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Membership

	UpsertFunc func(ctx context.Context, tx repository.Tx, m *model.Membership) error
}

var _ repository.MembershipRepository = (*memMembershipRepo)(nil)

// snapshotPayments and snapshotMemberships deep-copy a repo's rows so a test
// transaction can be rolled back by swapping the store map back in.
func snapshotPayments(r *memPaymentRepo) map[string]*model.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*model.Payment, len(r.store))
	for id, p := range r.store {
		cp := *p
		out[id] = &cp
	}
	return out
}

func snapshotMemberships(r *memMembershipRepo) map[string]*model.Membership {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*model.Membership, len(r.store))
	for id, m := range r.store {
		cp := *m
		out[id] = &cp
	}
	return out
}

func newMemMembershipRepo() *memMembershipRepo {
	return &memMembershipRepo{store: make(map[string]*model.Membership)}
}

func (m *memMembershipRepo) Upsert(ctx context.Context, tx repository.Tx, ms *model.Membership) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, ms)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.store[ms.ID]; ok {
		// created_at survives renewal, matching the store's upsert
		ms.CreatedAt = existing.CreatedAt
	}
	cp := *ms
	m.store[ms.ID] = &cp
	return nil
}

func (m *memMembershipRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ms, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ms
	return &cp, nil
}

func (m *memMembershipRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Membership
	for _, ms := range m.store {
		if ms.UserID == userID {
			cp := *ms
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memMembershipRepo) CountActiveByPlan(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int)
	now := time.Now()
	for _, ms := range m.store {
		if ms.Status == model.MembershipStatusActive && ms.ExpiryDate.After(now) {
			out[ms.PlanID]++
		}
	}
	return out, nil
}

type memBannerRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Banner

	ActivateFunc func(ctx context.Context, tx repository.Tx, id string, start, expiry time.Time) error
}

var _ repository.BannerRepository = (*memBannerRepo)(nil)

func newMemBannerRepo() *memBannerRepo {
	return &memBannerRepo{store: make(map[string]*model.Banner)}
}

func (m *memBannerRepo) Save(ctx context.Context, tx repository.Tx, b *model.Banner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.store[b.ID] = &cp
	return nil
}

func (m *memBannerRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Banner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBannerRepo) Activate(ctx context.Context, tx repository.Tx, id string, start, expiry time.Time) error {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, tx, id, start, expiry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	s, e := start, expiry
	b.Status = model.BannerStatusActive
	b.StartDate = &s
	b.ExpiryDate = &e
	return nil
}

func (m *memBannerRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.BannerStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *memBannerRepo) ListActiveByPosition(ctx context.Context, tx repository.Tx, position string, now time.Time) ([]*model.Banner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Banner
	for _, b := range m.store {
		if b.Status == model.BannerStatusActive && b.Position == position && b.ExpiryDate != nil && b.ExpiryDate.After(now) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memBannerRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.BannerStatus, limit int) ([]*model.Banner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Banner
	for _, b := range m.store {
		if b.Status == status {
			cp := *b
			out = append(out, &cp)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memBannerRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

type memPlanRepo struct {
	mu    sync.RWMutex
	plans map[string]*model.MembershipPlan
}

var _ repository.MembershipPlanRepository = (*memPlanRepo)(nil)

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[string]*model.MembershipPlan)}
}

func (m *memPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.MembershipPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.plans[p.ID] = &cp
	return nil
}

func (m *memPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MembershipPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MembershipPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.MembershipPlan, 0, len(m.plans))
	for _, p := range m.plans {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, id)
	return nil
}

type memAdRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Ad

	CountByUserFunc func(ctx context.Context, tx repository.Tx, userID string) (int, error)
}

var _ repository.AdRepository = (*memAdRepo)(nil)

func newMemAdRepo() *memAdRepo {
	return &memAdRepo{store: make(map[string]*model.Ad)}
}

func (m *memAdRepo) Save(ctx context.Context, tx repository.Tx, ad *model.Ad) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ad
	m.store[ad.ID] = &cp
	return nil
}

func (m *memAdRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Ad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ad, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ad
	return &cp, nil
}

func (m *memAdRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.AdStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ad, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	ad.Status = status
	return nil
}

func (m *memAdRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

func (m *memAdRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Ad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Ad
	for _, ad := range m.store {
		if ad.UserID == userID {
			cp := *ad
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAdRepo) List(ctx context.Context, tx repository.Tx, q repository.AdQuery) ([]*model.Ad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Ad
	for _, ad := range m.store {
		if q.CategoryID != "" && ad.CategoryID != q.CategoryID {
			continue
		}
		if q.District != "" && ad.District != q.District {
			continue
		}
		if q.Status != "" && ad.Status != q.Status {
			continue
		}
		cp := *ad
		out = append(out, &cp)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (m *memAdRepo) CountByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	if m.CountByUserFunc != nil {
		return m.CountByUserFunc(ctx, tx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, ad := range m.store {
		if ad.UserID == userID {
			n++
		}
	}
	return n, nil
}

type memUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (m *memUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// -----------------------------
// Transaction manager
// -----------------------------

type mockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*mockTxManager)(nil)

func newMockTxManager() *mockTxManager {
	return &mockTxManager{}
}

// WithTx runs fn immediately with NoTX by default. Tests that need to observe
// or fail the commit assign WithTxFunc.
func (m *mockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// -----------------------------
// Adapters
// -----------------------------

type mockAuthorizer struct {
	admins map[string]bool
	err    error
}

var _ adapter.Authorizer = (*mockAuthorizer)(nil)

func newMockAuthorizer(adminIDs ...string) *mockAuthorizer {
	m := &mockAuthorizer{admins: make(map[string]bool)}
	for _, id := range adminIDs {
		m.admins[id] = true
	}
	return m
}

func (m *mockAuthorizer) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.admins[userID], nil
}

// mockNotifier records every delivery for assertions.
type mockNotifier struct {
	mu       sync.Mutex
	Approved []*model.Payment
	Rejected []*model.Payment
	Failures []struct {
		UserID, Kind, Message string
	}
}

var _ adapter.Notifier = (*mockNotifier)(nil)

func (m *mockNotifier) NotifyPaymentApproved(ctx context.Context, p *model.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.Approved = append(m.Approved, &cp)
}

func (m *mockNotifier) NotifyPaymentRejected(ctx context.Context, p *model.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.Rejected = append(m.Rejected, &cp)
}

func (m *mockNotifier) NotifyFailure(ctx context.Context, userID, kind, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures = append(m.Failures, struct {
		UserID, Kind, Message string
	}{userID, kind, message})
}

// mockBlobStore returns the path as the reference and remembers what was
// stored.
type mockBlobStore struct {
	mu      sync.Mutex
	Stored  map[string]string // path -> data URL or raw payload marker
	Deleted []string
	PutErr  error
}

var _ adapter.BlobStore = (*mockBlobStore)(nil)

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{Stored: make(map[string]string)}
}

func (m *mockBlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if m.PutErr != nil {
		return "", m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stored[path] = string(data)
	return path, nil
}

func (m *mockBlobStore) PutDataURL(ctx context.Context, path, dataURL string) (string, error) {
	if m.PutErr != nil {
		return "", m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stored[path] = dataURL
	return path, nil
}

func (m *mockBlobStore) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Stored, ref)
	m.Deleted = append(m.Deleted, ref)
	return nil
}

func (m *mockBlobStore) URL(ref string) string { return "https://cdn.test/" + ref }

func (m *mockBlobStore) SignedURL(ref string, ttl time.Duration) (string, error) {
	return "https://cdn.test/" + ref + "?signed", nil
}
