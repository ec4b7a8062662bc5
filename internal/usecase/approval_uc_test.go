// File: internal/usecase/approval_uc_test.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/repository"
)

type approvalDeps struct {
	payments    *memPaymentRepo
	memberships *memMembershipRepo
	banners     *memBannerRepo
	plans       *memPlanRepo
	tm          *mockTxManager
	authz       *mockAuthorizer
	notifier    *mockNotifier
}

func newApprovalDeps() *approvalDeps {
	return &approvalDeps{
		payments:    newMemPaymentRepo(),
		memberships: newMemMembershipRepo(),
		banners:     newMemBannerRepo(),
		plans:       newMemPlanRepo(),
		tm:          newMockTxManager(),
		authz:       newMockAuthorizer("admin-1"),
		notifier:    &mockNotifier{},
	}
}

func (d *approvalDeps) uc(at time.Time) *approvalUC {
	uc := NewApprovalUseCase(d.payments, d.memberships, d.banners, d.plans, d.tm, d.authz, d.notifier, newTestLogger())
	uc.now = fixedClock(at)
	return uc
}

func pendingMembershipPayment(id, userID, planID string) *model.Payment {
	return &model.Payment{
		ID:         id,
		UserID:     userID,
		Amount:     7500,
		Method:     "bank-transfer",
		SlipRef:    "slips/" + id,
		Status:     model.PaymentStatusPending,
		PaymentFor: model.PaymentForMembership,
		TargetID:   planID,
	}
}

func TestApprove_MembershipActivation(t *testing.T) {
	ctx := context.Background()
	// approval on 2024-01-15 of a 6 month plan must expire 2024-07-15
	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	deps := newApprovalDeps()
	deps.plans.Save(ctx, nil, &model.MembershipPlan{ID: "plan-gold", Name: "Gold", DurationMonths: 6, AdQuota: 100, PriceLKR: 7500})
	deps.payments.Save(ctx, nil, pendingMembershipPayment("pay-1", "user-1", "plan-gold"))
	uc := deps.uc(at)

	p, err := uc.Approve(ctx, "admin-1", "pay-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if p.Status != model.PaymentStatusApproved {
		t.Errorf("payment status = %s, want Approved", p.Status)
	}
	if p.ProcessedAt == nil || !p.ProcessedAt.Equal(at) {
		t.Errorf("ProcessedAt = %v, want %v", p.ProcessedAt, at)
	}

	m, err := deps.memberships.FindByID(ctx, repository.NoTX, model.MembershipID("user-1", "plan-gold"))
	if err != nil {
		t.Fatalf("membership not created: %v", err)
	}
	if m.Status != model.MembershipStatusActive {
		t.Errorf("membership status = %s, want Active", m.Status)
	}
	wantExpiry := time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)
	if !m.ExpiryDate.Equal(wantExpiry) {
		t.Errorf("expiry = %v, want %v", m.ExpiryDate, wantExpiry)
	}

	if len(deps.notifier.Approved) != 1 {
		t.Errorf("want 1 approval notification, got %d", len(deps.notifier.Approved))
	}
}

func TestApprove_MembershipRenewalUpsertsSameRow(t *testing.T) {
	ctx := context.Background()
	deps := newApprovalDeps()
	deps.plans.Save(ctx, nil, &model.MembershipPlan{ID: "plan-gold", Name: "Gold", DurationMonths: 6, AdQuota: 100, PriceLKR: 7500})

	first := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	deps.payments.Save(ctx, nil, pendingMembershipPayment("pay-1", "user-1", "plan-gold"))
	if _, err := deps.uc(first).Approve(ctx, "admin-1", "pay-1"); err != nil {
		t.Fatalf("first approval: %v", err)
	}

	second := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	deps.payments.Save(ctx, nil, pendingMembershipPayment("pay-2", "user-1", "plan-gold"))
	if _, err := deps.uc(second).Approve(ctx, "admin-1", "pay-2"); err != nil {
		t.Fatalf("second approval: %v", err)
	}

	if n := len(deps.memberships.store); n != 1 {
		t.Fatalf("want a single membership row after renewal, got %d", n)
	}
	m, _ := deps.memberships.FindByID(ctx, repository.NoTX, model.MembershipID("user-1", "plan-gold"))
	if !m.StartDate.Equal(second) {
		t.Errorf("start date not renewed: %v", m.StartDate)
	}
	if !m.ExpiryDate.Equal(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expiry not renewed: %v", m.ExpiryDate)
	}
}

func TestApprove_BannerActivation(t *testing.T) {
	ctx := context.Background()
	// "2-weeks" approved on 2024-03-01 expires 2024-03-15
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	deps := newApprovalDeps()
	deps.banners.Save(ctx, nil, &model.Banner{ID: "banner-42", UserID: "user-2", Position: "home-top", DurationCode: "2-weeks", Status: model.BannerStatusPending})
	deps.payments.Save(ctx, nil, &model.Payment{
		ID: "pay-banner", UserID: "user-2", Amount: 2000,
		Status: model.PaymentStatusPending, PaymentFor: model.PaymentForBanner, TargetID: "banner-42",
	})
	uc := deps.uc(at)

	if _, err := uc.Approve(ctx, "admin-1", "pay-banner"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	b, _ := deps.banners.FindByID(ctx, repository.NoTX, "banner-42")
	if b.Status != model.BannerStatusActive {
		t.Errorf("banner status = %s, want Active", b.Status)
	}
	if b.StartDate == nil || !b.StartDate.Equal(at) {
		t.Errorf("start = %v, want %v", b.StartDate, at)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if b.ExpiryDate == nil || !b.ExpiryDate.Equal(want) {
		t.Errorf("expiry = %v, want %v", b.ExpiryDate, want)
	}
}

func TestApprove_MalformedStoredDurationFailsWithoutDefault(t *testing.T) {
	ctx := context.Background()
	deps := newApprovalDeps()
	deps.banners.Save(ctx, nil, &model.Banner{ID: "banner-bad", UserID: "user-2", DurationCode: "fortnight", Status: model.BannerStatusPending})
	deps.payments.Save(ctx, nil, &model.Payment{
		ID: "pay-bad", UserID: "user-2", Amount: 2000,
		Status: model.PaymentStatusPending, PaymentFor: model.PaymentForBanner, TargetID: "banner-bad",
	})
	uc := deps.uc(time.Now())

	_, err := uc.Approve(ctx, "admin-1", "pay-bad")
	if !errors.Is(err, domain.ErrMalformedDurationCode) {
		t.Fatalf("want ErrMalformedDurationCode, got: %v", err)
	}

	// payment must remain pending and the banner untouched
	p, _ := deps.payments.FindByID(ctx, repository.NoTX, "pay-bad")
	if p.Status != model.PaymentStatusPending {
		t.Errorf("payment status = %s, want Pending", p.Status)
	}
	b, _ := deps.banners.FindByID(ctx, repository.NoTX, "banner-bad")
	if b.Status != model.BannerStatusPending || b.ExpiryDate != nil {
		t.Errorf("banner mutated on failed approval: %+v", b)
	}
	if len(deps.notifier.Failures) != 1 || deps.notifier.Failures[0].Kind != "MalformedDurationCode" {
		t.Errorf("failure notification missing or wrong kind: %+v", deps.notifier.Failures)
	}
}

func TestApprove_AlreadyProcessedIsTerminal(t *testing.T) {
	ctx := context.Background()
	deps := newApprovalDeps()
	deps.plans.Save(ctx, nil, &model.MembershipPlan{ID: "plan-gold", DurationMonths: 6, AdQuota: 100, PriceLKR: 7500})
	deps.payments.Save(ctx, nil, pendingMembershipPayment("pay-1", "user-1", "plan-gold"))
	uc := deps.uc(time.Now())

	if _, err := uc.Approve(ctx, "admin-1", "pay-1"); err != nil {
		t.Fatalf("first approval: %v", err)
	}
	if _, err := uc.Approve(ctx, "admin-1", "pay-1"); !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("second approval: want ErrAlreadyProcessed, got %v", err)
	}
	if _, err := uc.Reject(ctx, "admin-1", "pay-1"); !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("reject after approve: want ErrAlreadyProcessed, got %v", err)
	}
	// exactly one membership activation happened
	if n := len(deps.memberships.store); n != 1 {
		t.Errorf("memberships = %d, want 1", n)
	}
}

func TestApprove_ConcurrentConditionalWriteLoses(t *testing.T) {
	// The payment reads as Pending but the conditional write reports no row
	// transitioned, as when another admin wins the race inside their own tx.
	ctx := context.Background()
	deps := newApprovalDeps()
	deps.plans.Save(ctx, nil, &model.MembershipPlan{ID: "plan-gold", DurationMonths: 6, AdQuota: 100, PriceLKR: 7500})
	deps.payments.Save(ctx, nil, pendingMembershipPayment("pay-1", "user-1", "plan-gold"))
	deps.payments.UpdateStatusIfPendingFunc = func(ctx context.Context, tx repository.Tx, id string, s model.PaymentStatus) (bool, error) {
		return false, nil
	}
	uc := deps.uc(time.Now())

	_, err := uc.Approve(ctx, "admin-1", "pay-1")
	if !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("want ErrAlreadyProcessed, got: %v", err)
	}
	if len(deps.notifier.Approved) != 0 {
		t.Error("no approval notification may be sent on a lost race")
	}
}

func TestApprove_CommitFailureReportsStoreCommit(t *testing.T) {
	ctx := context.Background()
	deps := newApprovalDeps()
	deps.plans.Save(ctx, nil, &model.MembershipPlan{ID: "plan-gold", DurationMonths: 6, AdQuota: 100, PriceLKR: 7500})
	deps.payments.Save(ctx, nil, pendingMembershipPayment("pay-1", "user-1", "plan-gold"))
	// A failed commit discards every write made inside the transaction, so the
	// mock snapshots both stores before fn and restores them afterwards.
	deps.tm.WithTxFunc = func(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
		paymentsBefore := snapshotPayments(deps.payments)
		membershipsBefore := snapshotMemberships(deps.memberships)
		if err := fn(ctx, repository.NoTX); err != nil {
			return err
		}
		deps.payments.store = paymentsBefore
		deps.memberships.store = membershipsBefore
		return fmt.Errorf("%w: commit: connection reset", domain.ErrStoreCommit)
	}
	uc := deps.uc(time.Now())

	_, err := uc.Approve(ctx, "admin-1", "pay-1")
	if !errors.Is(err, domain.ErrStoreCommit) {
		t.Fatalf("want ErrStoreCommit, got: %v", err)
	}

	// Atomicity: the payment is still Pending and no entitlement exists.
	p, _ := deps.payments.FindByID(ctx, repository.NoTX, "pay-1")
	if p.Status != model.PaymentStatusPending {
		t.Errorf("payment status = %s, want Pending after failed commit", p.Status)
	}
	if p.ProcessedAt != nil {
		t.Error("payment carries a processed timestamp after failed commit")
	}
	if n := len(deps.memberships.store); n != 0 {
		t.Errorf("%d membership rows exist after failed commit, want 0", n)
	}

	if len(deps.notifier.Failures) != 1 || deps.notifier.Failures[0].Kind != "StoreCommitError" {
		t.Errorf("failure kind: %+v", deps.notifier.Failures)
	}
	if len(deps.notifier.Approved) != 0 {
		t.Error("approval notification sent despite failed commit")
	}
}

func TestApprove_UnknownPlan(t *testing.T) {
	ctx := context.Background()
	deps := newApprovalDeps()
	deps.payments.Save(ctx, nil, pendingMembershipPayment("pay-1", "user-1", "plan-missing"))
	uc := deps.uc(time.Now())

	_, err := uc.Approve(ctx, "admin-1", "pay-1")
	if !errors.Is(err, domain.ErrUnknownPlan) {
		t.Fatalf("want ErrUnknownPlan, got: %v", err)
	}
	p, _ := deps.payments.FindByID(ctx, repository.NoTX, "pay-1")
	if p.Status != model.PaymentStatusPending {
		t.Errorf("payment status = %s, want Pending", p.Status)
	}
	if len(deps.notifier.Failures) != 1 || deps.notifier.Failures[0].Kind != "UnknownPlanError" {
		t.Errorf("failure kind: %+v", deps.notifier.Failures)
	}
}

func TestApprove_NonAdminDenied(t *testing.T) {
	ctx := context.Background()
	deps := newApprovalDeps()
	deps.payments.Save(ctx, nil, pendingMembershipPayment("pay-1", "user-1", "plan-gold"))
	uc := deps.uc(time.Now())

	if _, err := uc.Approve(ctx, "user-1", "pay-1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("approve: want ErrUnauthorized, got %v", err)
	}
	if _, err := uc.Reject(ctx, "user-1", "pay-1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("reject: want ErrUnauthorized, got %v", err)
	}
	p, _ := deps.payments.FindByID(ctx, repository.NoTX, "pay-1")
	if p.Status != model.PaymentStatusPending {
		t.Errorf("payment mutated by unauthorized caller")
	}
}

func TestReject_OnlySetsStatus(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)
	deps := newApprovalDeps()
	deps.plans.Save(ctx, nil, &model.MembershipPlan{ID: "plan-gold", DurationMonths: 6, AdQuota: 100, PriceLKR: 7500})
	deps.payments.Save(ctx, nil, pendingMembershipPayment("pay-1", "user-1", "plan-gold"))
	uc := deps.uc(at)

	p, err := uc.Reject(ctx, "admin-1", "pay-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if p.Status != model.PaymentStatusRejected {
		t.Errorf("payment status = %s, want Rejected", p.Status)
	}
	if p.ProcessedAt == nil || !p.ProcessedAt.Equal(at) {
		t.Errorf("ProcessedAt = %v, want %v", p.ProcessedAt, at)
	}
	if n := len(deps.memberships.store); n != 0 {
		t.Errorf("rejection created %d memberships, want 0", n)
	}
	if len(deps.notifier.Rejected) != 1 {
		t.Errorf("want 1 rejection notification, got %d", len(deps.notifier.Rejected))
	}
}

func TestApprove_PaymentNotFound(t *testing.T) {
	ctx := context.Background()
	deps := newApprovalDeps()
	uc := deps.uc(time.Now())

	_, err := uc.Approve(ctx, "admin-1", "pay-missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got: %v", err)
	}
	if len(deps.notifier.Failures) != 1 || deps.notifier.Failures[0].Kind != "NotFoundError" {
		t.Errorf("failure kind: %+v", deps.notifier.Failures)
	}
}
