package adapter

import "context"

// Authorizer is the explicit admin policy object injected into the moderation
// and approval flows. It replaces inline comparisons against a hardcoded
// identity, so the workflows stay testable without the real identity provider.
type Authorizer interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
