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

var _ repository.AdRepository = (*adRepo)(nil)

type adRepo struct{ pool *pgxpool.Pool }

func NewAdRepo(pool *pgxpool.Pool) *adRepo {
	return &adRepo{pool: pool}
}

const adColumns = `id, user_id, title, description, price, category_id, sub_category_id, district, image_refs, phone_number, status, created_at, updated_at`

func (r *adRepo) Save(ctx context.Context, tx repository.Tx, ad *model.Ad) error {
	const q = `
INSERT INTO ads (id, user_id, title, description, price, category_id, sub_category_id, district, image_refs, phone_number, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
  title=$3, description=$4, price=$5, category_id=$6, sub_category_id=$7, district=$8, image_refs=$9, phone_number=$10, status=$11, updated_at=$13;`

	_, err := execSQL(ctx, r.pool, tx, q, ad.ID, ad.UserID, ad.Title, ad.Description, ad.Price, ad.CategoryID, ad.SubCategoryID, ad.District, ad.ImageRefs, ad.PhoneNumber, ad.Status, ad.CreatedAt, ad.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *adRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Ad, error) {
	q := `SELECT ` + adColumns + ` FROM ads WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	ad := &model.Ad{}
	if err := scanAdRow(row, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (r *adRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.AdStatus) error {
	const q = `UPDATE ads SET status=$2, updated_at=NOW() WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, status)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *adRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM ads WHERE id=$1;`
	if _, err := execSQL(ctx, r.pool, tx, q, id); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *adRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Ad, error) {
	q := `SELECT ` + adColumns + ` FROM ads WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return scanAds(rows)
}

// List evaluates only single-field equality predicates; richer predicates are
// applied in memory by the listing use case after fetch.
func (r *adRepo) List(ctx context.Context, tx repository.Tx, query repository.AdQuery) ([]*model.Ad, error) {
	q := `SELECT ` + adColumns + ` FROM ads WHERE 1=1`
	var args []interface{}
	if query.Status != "" {
		args = append(args, query.Status)
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if query.CategoryID != "" {
		args = append(args, query.CategoryID)
		q += fmt.Sprintf(" AND category_id=$%d", len(args))
	}
	if query.District != "" {
		args = append(args, query.District)
		q += fmt.Sprintf(" AND district=$%d", len(args))
	}
	q += " ORDER BY created_at DESC"
	if query.Limit > 0 {
		args = append(args, query.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	q += ";"

	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return scanAds(rows)
}

func (r *adRepo) CountByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	const q = `SELECT COUNT(*) FROM ads WHERE user_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func scanAdRow(row pgx.Row, ad *model.Ad) error {
	if err := row.Scan(&ad.ID, &ad.UserID, &ad.Title, &ad.Description, &ad.Price, &ad.CategoryID, &ad.SubCategoryID, &ad.District, &ad.ImageRefs, &ad.PhoneNumber, &ad.Status, &ad.CreatedAt, &ad.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return domain.ErrReadDatabaseRow
	}
	return nil
}

func scanAds(rows pgx.Rows) ([]*model.Ad, error) {
	var out []*model.Ad
	for rows.Next() {
		ad := &model.Ad{}
		if err := rows.Scan(&ad.ID, &ad.UserID, &ad.Title, &ad.Description, &ad.Price, &ad.CategoryID, &ad.SubCategoryID, &ad.District, &ad.ImageRefs, &ad.PhoneNumber, &ad.Status, &ad.CreatedAt, &ad.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, ad)
	}
	return out, rows.Err()
}
