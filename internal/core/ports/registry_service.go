package ports

import (
	"context"

	"github.com/veritrace/provenance/internal/core/domain"
)

// RoleAssignment names one (account, role) membership check result.
type RoleAssignment struct {
	Role domain.Role
	Held bool
}

// RegistryService defines the access-control use cases. Actor is the
// on-ledger account performing the call; grant, revoke, and authority
// updates require the actor to hold the Admin role.
type RegistryService interface {
	GrantRole(ctx context.Context, actor, account string, role domain.Role) error
	RevokeRole(ctx context.Context, actor, account string, role domain.Role) error
	HasRole(ctx context.Context, account string, role domain.Role) (bool, error)
	// Roles reports membership of all known roles for an account.
	Roles(ctx context.Context, account string) ([]RoleAssignment, error)
	// SetIdentityAuthority swaps the external authority endpoint. The
	// endpoint must be non-empty; the previous pointer is kept on failure.
	SetIdentityAuthority(ctx context.Context, actor, endpoint string) error
}
