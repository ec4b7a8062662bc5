// File: internal/infra/security/authorizer.go
package security

import (
	"context"
	"errors"

	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/ports/adapter"
	"classified-marketplace/internal/domain/ports/repository"
)

var _ adapter.Authorizer = (*ConfigAuthorizer)(nil)

// ConfigAuthorizer grants admin rights to identities listed in config plus
// users whose stored record carries the admin flag. The config allowlist works
// before any user row exists, which is how the first admin bootstraps.
type ConfigAuthorizer struct {
	allow map[string]struct{}
	users repository.UserRepository
}

func NewConfigAuthorizer(adminIDs []string, users repository.UserRepository) *ConfigAuthorizer {
	allow := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		allow[id] = struct{}{}
	}
	return &ConfigAuthorizer{allow: allow, users: users}
}

func (a *ConfigAuthorizer) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if _, ok := a.allow[userID]; ok {
		return true, nil
	}
	if a.users == nil {
		return false, nil
	}
	u, err := a.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin, nil
}
