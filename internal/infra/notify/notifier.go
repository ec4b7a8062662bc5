// File: internal/infra/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"classified-marketplace/internal/domain/model"
	"classified-marketplace/internal/domain/ports/adapter"
	"classified-marketplace/internal/domain/ports/repository"
)

var _ adapter.Notifier = (*Notifier)(nil)

// Notifier persists user-facing outcomes to the notification log and emits a
// structured log event. Delivery is best effort; a persistence failure is
// logged and swallowed so it cannot void an already-committed approval.
type Notifier struct {
	logs repository.NotificationLogRepository
	log  *zerolog.Logger
}

func NewNotifier(logs repository.NotificationLogRepository, logger *zerolog.Logger) *Notifier {
	return &Notifier{logs: logs, log: logger}
}

func (n *Notifier) NotifyPaymentApproved(ctx context.Context, p *model.Payment) {
	subject := "Payment approved"
	msg := fmt.Sprintf("Your payment %s of Rs. %d was approved.", p.ID, p.Amount)
	n.deliver(ctx, p.UserID, "payment_approved", subject, msg)
}

func (n *Notifier) NotifyPaymentRejected(ctx context.Context, p *model.Payment) {
	subject := "Payment rejected"
	msg := fmt.Sprintf("Your payment %s of Rs. %d was rejected. Contact support if you believe this is a mistake.", p.ID, p.Amount)
	n.deliver(ctx, p.UserID, "payment_rejected", subject, msg)
}

func (n *Notifier) NotifyFailure(ctx context.Context, userID, kind, message string) {
	n.deliver(ctx, userID, kind, "Action failed", message)
}

func (n *Notifier) deliver(ctx context.Context, userID, kind, subject, message string) {
	n.log.Info().
		Str("user_id", userID).
		Str("kind", kind).
		Str("subject", subject).
		Msg("notify user")

	if n.logs == nil {
		return
	}
	if err := n.logs.Save(ctx, repository.NoTX, userID, kind, subject, message); err != nil {
		n.log.Error().Err(err).Str("user_id", userID).Str("kind", kind).Msg("failed to persist notification")
	}
}
