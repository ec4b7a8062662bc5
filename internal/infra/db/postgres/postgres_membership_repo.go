package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/repository"
)

var _ repository.MembershipRepository = (*membershipRepo)(nil)

type membershipRepo struct{ pool *pgxpool.Pool }

func NewMembershipRepo(pool *pgxpool.Pool) *membershipRepo {
	return &membershipRepo{pool: pool}
}

const membershipColumns = `id, user_id, plan_id, start_date, expiry_date, status, created_at`

// Upsert writes the membership keyed by its deterministic id. Re-approval of
// the same (user, plan) pair overwrites dates and status in place; created_at
// keeps its original value.
func (r *membershipRepo) Upsert(ctx context.Context, tx repository.Tx, m *model.Membership) error {
	const q = `
INSERT INTO memberships (id, user_id, plan_id, start_date, expiry_date, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  start_date=EXCLUDED.start_date,
  expiry_date=EXCLUDED.expiry_date,
  status=EXCLUDED.status;`

	_, err := execSQL(ctx, r.pool, tx, q, m.ID, m.UserID, m.PlanID, m.StartDate, m.ExpiryDate, m.Status, m.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *membershipRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
	q := `SELECT ` + membershipColumns + ` FROM memberships WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	m := &model.Membership{}
	if err := row.Scan(&m.ID, &m.UserID, &m.PlanID, &m.StartDate, &m.ExpiryDate, &m.Status, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return m, nil
}

func (r *membershipRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Membership, error) {
	q := `SELECT ` + membershipColumns + ` FROM memberships WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Membership
	for rows.Next() {
		m := &model.Membership{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.PlanID, &m.StartDate, &m.ExpiryDate, &m.Status, &m.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountActiveByPlan treats expiry as a read-time condition: only rows whose
// expiry_date is still ahead count as active.
func (r *membershipRepo) CountActiveByPlan(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	const q = `SELECT plan_id, COUNT(*) FROM memberships WHERE status='Active' AND expiry_date > NOW() GROUP BY plan_id;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var planID string
		var n int
		if err := rows.Scan(&planID, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[planID] = n
	}
	return out, rows.Err()
}
