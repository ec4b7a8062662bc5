package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/repository"
)

var _ repository.BannerRepository = (*bannerRepo)(nil)

type bannerRepo struct{ pool *pgxpool.Pool }

func NewBannerRepo(pool *pgxpool.Pool) *bannerRepo {
	return &bannerRepo{pool: pool}
}

const bannerColumns = `id, user_id, image_ref, description, position, category_id, duration_code, status, start_date, expiry_date, created_at`

func (r *bannerRepo) Save(ctx context.Context, tx repository.Tx, b *model.Banner) error {
	const q = `
INSERT INTO banners (id, user_id, image_ref, description, position, category_id, duration_code, status, start_date, expiry_date, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  image_ref=$3, description=$4, position=$5, category_id=$6, duration_code=$7, status=$8, start_date=$9, expiry_date=$10;`

	_, err := execSQL(ctx, r.pool, tx, q, b.ID, b.UserID, b.ImageRef, b.Description, b.Position, b.CategoryID, b.DurationCode, b.Status, b.StartDate, b.ExpiryDate, b.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *bannerRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Banner, error) {
	q := `SELECT ` + bannerColumns + ` FROM banners WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	b := &model.Banner{}
	if err := row.Scan(&b.ID, &b.UserID, &b.ImageRef, &b.Description, &b.Position, &b.CategoryID, &b.DurationCode, &b.Status, &b.StartDate, &b.ExpiryDate, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return b, nil
}

// Activate is the single write path that populates a banner's validity window.
func (r *bannerRepo) Activate(ctx context.Context, tx repository.Tx, id string, start, expiry time.Time) error {
	const q = `UPDATE banners SET status=$2, start_date=$3, expiry_date=$4 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, model.BannerStatusActive, start, expiry)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bannerRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.BannerStatus) error {
	const q = `UPDATE banners SET status=$2 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, status)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bannerRepo) ListActiveByPosition(ctx context.Context, tx repository.Tx, position string, now time.Time) ([]*model.Banner, error) {
	q := `SELECT ` + bannerColumns + ` FROM banners WHERE position=$1 AND status=$2 AND expiry_date > $3 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, position, model.BannerStatusActive, now)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return scanBanners(rows)
}

func (r *bannerRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.BannerStatus, limit int) ([]*model.Banner, error) {
	q := `SELECT ` + bannerColumns + ` FROM banners WHERE status=$1 ORDER BY created_at ASC`
	args := []interface{}{status}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}
	q += ";"
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return scanBanners(rows)
}

func (r *bannerRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM banners WHERE id=$1;`
	if _, err := execSQL(ctx, r.pool, tx, q, id); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func scanBanners(rows pgx.Rows) ([]*model.Banner, error) {
	var out []*model.Banner
	for rows.Next() {
		b := &model.Banner{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.ImageRef, &b.Description, &b.Position, &b.CategoryID, &b.DurationCode, &b.Status, &b.StartDate, &b.ExpiryDate, &b.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
