package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/veritrace/provenance/internal/core/domain"
	"github.com/veritrace/provenance/internal/core/ports"
)

// IdentityGate evaluates the eligibility predicate against the external
// Identity Authority. Both queries hit the authority on every call; the
// gate never caches results across calls.
type IdentityGate struct {
	source ports.AuthoritySource
	log    zerolog.Logger
}

func NewIdentityGate(source ports.AuthoritySource, log zerolog.Logger) *IdentityGate {
	return &IdentityGate{source: source, log: log}
}

// Check returns nil when the account is eligible to mutate the ledger.
// Failure order: missing credential first, then suspension.
func (g *IdentityGate) Check(ctx context.Context, account string) error {
	authority := g.source.Authority()

	balance, err := authority.CredentialBalance(ctx, account)
	if err != nil {
		return fmt.Errorf("identity gate: credential balance: %w", err)
	}
	if balance <= 0 {
		return domain.ErrNoIdentityCredential
	}

	suspended, err := authority.IsSuspended(ctx, account)
	if err != nil {
		return fmt.Errorf("identity gate: suspension flag: %w", err)
	}
	if suspended {
		return domain.ErrSuspended
	}

	return nil
}

// Eligibility wraps Check into the read-only predicate exposed to callers
// that want to pre-check an account without attempting a mutating call.
func (g *IdentityGate) Eligibility(ctx context.Context, account string) (*ports.EligibilityResult, error) {
	err := g.Check(ctx, account)
	switch {
	case err == nil:
		return &ports.EligibilityResult{Account: account, Eligible: true}, nil
	case errors.Is(err, domain.ErrNoIdentityCredential):
		return &ports.EligibilityResult{Account: account, Reason: "no_identity_credential"}, nil
	case errors.Is(err, domain.ErrSuspended):
		return &ports.EligibilityResult{Account: account, Reason: "suspended"}, nil
	default:
		// Authority unreachable or misbehaving: surface the error rather
		// than guessing an answer.
		g.log.Warn().Err(err).Str("account", account).Msg("eligibility check failed")
		return nil, err
	}
}
