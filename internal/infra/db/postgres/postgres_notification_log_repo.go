package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/ports/repository"
)

var _ repository.NotificationLogRepository = (*notificationLogRepo)(nil)

type notificationLogRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationLogRepo(pool *pgxpool.Pool) repository.NotificationLogRepository {
	return &notificationLogRepo{pool: pool}
}

func (r *notificationLogRepo) Save(ctx context.Context, tx repository.Tx, userID, kind, subject, message string) error {
	const q = `
INSERT INTO notifications (id, user_id, kind, subject, message, sent_at)
VALUES ($1, $2, $3, $4, $5, NOW())`

	_, err := execSQL(ctx, r.pool, tx, q, uuid.NewString(), userID, kind, subject, message)
	return err
}

func (r *notificationLogRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]repository.NotificationEntry, error) {
	const q = `
SELECT id, user_id, kind, subject, message, sent_at
FROM notifications
WHERE user_id = $1
ORDER BY sent_at DESC
LIMIT $2`

	rows, err := queryRows(ctx, r.pool, tx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.NotificationEntry
	for rows.Next() {
		var e repository.NotificationEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Subject, &e.Message, &e.SentAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}
