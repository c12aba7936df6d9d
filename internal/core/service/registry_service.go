package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/veritrace/provenance/internal/api/metrics"
	"github.com/veritrace/provenance/internal/core/domain"
	"github.com/veritrace/provenance/internal/core/ports"
)

// AuthoritySwitcher is the runtime half of the identity-authority pointer:
// Set swaps the endpoint the gate queries from now on.
type AuthoritySwitcher interface {
	Set(endpoint string)
}

// RegistryService implements the access-control registry: role membership
// plus the guarded identity-authority pointer. Grant/revoke/authority
// updates are admin-only; the admin check reads the role store fresh on
// every call.
type RegistryService struct {
	roles     ports.RoleRepository
	authority ports.AuthorityStore
	switcher  AuthoritySwitcher
	events    ports.EventSink
	log       zerolog.Logger
}

func NewRegistryService(
	roles ports.RoleRepository,
	authority ports.AuthorityStore,
	switcher AuthoritySwitcher,
	events ports.EventSink,
	log zerolog.Logger,
) *RegistryService {
	return &RegistryService{
		roles:     roles,
		authority: authority,
		switcher:  switcher,
		events:    events,
		log:       log,
	}
}

// Bootstrap grants the Admin role to the configured admin account without
// an actor check. Called once at process start; idempotent.
func (s *RegistryService) Bootstrap(ctx context.Context, adminAccount string) error {
	if adminAccount == "" {
		return fmt.Errorf("registry bootstrap: admin account must not be empty")
	}
	if err := s.roles.Grant(ctx, adminAccount, domain.RoleAdmin); err != nil {
		return fmt.Errorf("registry bootstrap: %w", err)
	}
	s.log.Info().Str("account", adminAccount).Msg("admin role bootstrapped")
	return nil
}

func (s *RegistryService) requireAdmin(ctx context.Context, actor string) error {
	held, err := s.roles.HasRole(ctx, actor, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("admin check: %w", err)
	}
	if !held {
		return domain.NewRoleError(domain.RoleAdmin)
	}
	return nil
}

// GrantRole grants role to account. Granting an already-held role is a
// no-op, not an error.
func (s *RegistryService) GrantRole(ctx context.Context, actor, account string, role domain.Role) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if err := s.roles.Grant(ctx, account, role); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	metrics.RoleMutationsTotal.WithLabelValues("grant", string(role)).Inc()
	s.log.Info().Str("actor", actor).Str("account", account).Str("role", string(role)).Msg("role granted")
	return nil
}

// RevokeRole revokes role from account. Revoking a role not held is a
// no-op, not an error.
func (s *RegistryService) RevokeRole(ctx context.Context, actor, account string, role domain.Role) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if err := s.roles.Revoke(ctx, account, role); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	metrics.RoleMutationsTotal.WithLabelValues("revoke", string(role)).Inc()
	s.log.Info().Str("actor", actor).Str("account", account).Str("role", string(role)).Msg("role revoked")
	return nil
}

// HasRole reports whether account currently holds role. Open to all callers.
func (s *RegistryService) HasRole(ctx context.Context, account string, role domain.Role) (bool, error) {
	return s.roles.HasRole(ctx, account, role)
}

// Roles reports membership of every known role for account.
func (s *RegistryService) Roles(ctx context.Context, account string) ([]ports.RoleAssignment, error) {
	all := []domain.Role{domain.RoleAdmin, domain.RoleProducer, domain.RoleVerifier}
	out := make([]ports.RoleAssignment, 0, len(all))
	for _, role := range all {
		held, err := s.roles.HasRole(ctx, account, role)
		if err != nil {
			return nil, err
		}
		out = append(out, ports.RoleAssignment{Role: role, Held: held})
	}
	return out, nil
}

// SetIdentityAuthority swaps the external authority endpoint. The endpoint
// must be non-empty; on any failure the previous pointer stays in effect.
func (s *RegistryService) SetIdentityAuthority(ctx context.Context, actor, endpoint string) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if endpoint == "" {
		return domain.ErrZeroAuthority
	}

	// Persist first so a crash between persist and swap heals on restart.
	if err := s.authority.SetEndpoint(ctx, endpoint); err != nil {
		return fmt.Errorf("set identity authority: %w", err)
	}
	s.switcher.Set(endpoint)

	s.events.Emit(domain.TraceEvent{
		Type:      domain.EventAuthorityUpdated,
		Account:   actor,
		Timestamp: time.Now().UTC(),
		Authority: endpoint,
	})
	s.log.Info().Str("actor", actor).Str("endpoint", endpoint).Msg("identity authority updated")
	return nil
}
