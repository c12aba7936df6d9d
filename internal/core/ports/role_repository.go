package ports

import (
	"context"

	"github.com/veritrace/provenance/internal/core/domain"
)

// RoleRepository persists the (account, role) membership relation.
// Grant and Revoke are idempotent: granting a held role or revoking an
// unheld one succeeds without effect.
type RoleRepository interface {
	HasRole(ctx context.Context, account string, role domain.Role) (bool, error)
	Grant(ctx context.Context, account string, role domain.Role) error
	Revoke(ctx context.Context, account string, role domain.Role) error
}

// AuthorityStore persists the current identity-authority endpoint so the
// pointer survives restarts.
type AuthorityStore interface {
	// Endpoint returns the stored endpoint, or "" when none has been set.
	Endpoint(ctx context.Context) (string, error)
	SetEndpoint(ctx context.Context, endpoint string) error
}
