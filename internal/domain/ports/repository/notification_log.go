package repository

import (
	"context"
	"time"
)

// -----------------------------
// Notifications Log
// -----------------------------

type NotificationLogRepository interface {
	// Save records that a notification was delivered to a user.
	Save(ctx context.Context, tx Tx, userID, kind, subject, message string) error
	// ListByUser returns recent notifications for a user, newest first.
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]NotificationEntry, error)
}

// NotificationEntry is a read model; notifications are append-only and have no
// behavior of their own.
type NotificationEntry struct {
	ID      string
	UserID  string
	Kind    string
	Subject string
	Message string
	SentAt  time.Time
}
