package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.MembershipPlanRepository = (*PostgresPlanRepo)(nil)

type PostgresPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPlanRepo(pool *pgxpool.Pool) *PostgresPlanRepo {
	return &PostgresPlanRepo{pool: pool}
}

func (r *PostgresPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.MembershipPlan) error {
	const sql = `
INSERT INTO membership_plans (id, name, duration_months, ad_quota, price_lkr, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
  SET name            = EXCLUDED.name,
      duration_months = EXCLUDED.duration_months,
      ad_quota        = EXCLUDED.ad_quota,
      price_lkr       = EXCLUDED.price_lkr;
`
	_, err := execSQL(ctx, r.pool, tx, sql,
		plan.ID, plan.Name, plan.DurationMonths, plan.AdQuota, plan.PriceLKR, plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Save plan: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MembershipPlan, error) {
	const sql = `
SELECT id, name, duration_months, ad_quota, price_lkr, created_at
  FROM membership_plans
 WHERE id = $1;
`
	row, err := pickRow(ctx, r.pool, tx, sql, id)
	if err != nil {
		return nil, err
	}
	var p model.MembershipPlan
	if err := row.Scan(&p.ID, &p.Name, &p.DurationMonths, &p.AdQuota, &p.PriceLKR, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindByID plan: %w", err)
	}
	return &p, nil
}

func (r *PostgresPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MembershipPlan, error) {
	const sql = `
SELECT id, name, duration_months, ad_quota, price_lkr, created_at
  FROM membership_plans
 ORDER BY price_lkr ASC;
`
	rows, err := queryRows(ctx, r.pool, tx, sql)
	if err != nil {
		return nil, fmt.Errorf("ListAll plans: %w", err)
	}
	defer rows.Close()
	var out []*model.MembershipPlan
	for rows.Next() {
		var p model.MembershipPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationMonths, &p.AdQuota, &p.PriceLKR, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PostgresPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const sql = `DELETE FROM membership_plans WHERE id = $1;`
	if _, err := execSQL(ctx, r.pool, tx, sql, id); err != nil {
		return fmt.Errorf("Delete plan: %w", err)
	}
	return nil
}
