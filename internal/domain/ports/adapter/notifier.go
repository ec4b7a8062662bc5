package adapter

import (
	"context"

	"classified-marketplace/internal/domain/model"
)

// Notifier delivers user-facing outcomes of admin actions. Implementations
// must not affect the atomicity of the underlying write: a failed notification
// never rolls back an approval, and no notification is sent for a failed one.
type Notifier interface {
	NotifyPaymentApproved(ctx context.Context, p *model.Payment)
	NotifyPaymentRejected(ctx context.Context, p *model.Payment)
	NotifyFailure(ctx context.Context, userID, kind, message string)
}
