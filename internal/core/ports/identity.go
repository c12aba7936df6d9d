package ports

import "context"

// IdentityAuthority is the narrow interface to the external authority that
// issues identity credentials. Both queries are evaluated live on every
// mutating call; results are never cached.
type IdentityAuthority interface {
	// CredentialBalance returns how many identity credentials the account
	// holds. The account "has a credential" iff the balance is > 0.
	CredentialBalance(ctx context.Context, account string) (int64, error)
	// IsSuspended reports whether the authority flags the account as
	// suspended.
	IsSuspended(ctx context.Context, account string) (bool, error)
}

// AuthoritySource yields the identity authority currently in effect. The
// backing endpoint is swappable at runtime by an admin.
type AuthoritySource interface {
	Authority() IdentityAuthority
	Endpoint() string
}
