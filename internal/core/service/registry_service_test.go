package service

import (
	"context"
	"errors"
	"testing"

	"github.com/veritrace/provenance/internal/core/domain"
)

type stubAuthorityStore struct {
	endpoint string
	setErr   error
}

func (s *stubAuthorityStore) Endpoint(_ context.Context) (string, error) {
	return s.endpoint, nil
}

func (s *stubAuthorityStore) SetEndpoint(_ context.Context, endpoint string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.endpoint = endpoint
	return nil
}

type stubSwitcher struct {
	endpoint string
	calls    int
}

func (s *stubSwitcher) Set(endpoint string) {
	s.endpoint = endpoint
	s.calls++
}

type registryFixture struct {
	svc      *RegistryService
	roles    *stubRoleRepo
	store    *stubAuthorityStore
	switcher *stubSwitcher
	sink     *stubSink
}

func newRegistryFixture() *registryFixture {
	roles := newStubRoleRepo()
	roles.grant("acct_admin", domain.RoleAdmin)
	store := &stubAuthorityStore{endpoint: "http://authority.internal"}
	switcher := &stubSwitcher{endpoint: "http://authority.internal"}
	sink := &stubSink{}

	return &registryFixture{
		svc:      NewRegistryService(roles, store, switcher, sink, discardLogger),
		roles:    roles,
		store:    store,
		switcher: switcher,
		sink:     sink,
	}
}

func TestBootstrap(t *testing.T) {
	f := newRegistryFixture()

	if err := f.svc.Bootstrap(context.Background(), "acct_root"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.roles.held["acct_root"][domain.RoleAdmin] {
		t.Fatalf("bootstrap must grant the admin role")
	}
	// Idempotent.
	if err := f.svc.Bootstrap(context.Background(), "acct_root"); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}

	if err := f.svc.Bootstrap(context.Background(), ""); err == nil {
		t.Fatalf("empty admin account must be rejected")
	}
}

func TestGrantRole(t *testing.T) {
	f := newRegistryFixture()

	if err := f.svc.GrantRole(context.Background(), "acct_admin", "acct_new", domain.RoleProducer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.roles.held["acct_new"][domain.RoleProducer] {
		t.Fatalf("role not granted")
	}

	// Granting an already-held role is a no-op, not an error.
	if err := f.svc.GrantRole(context.Background(), "acct_admin", "acct_new", domain.RoleProducer); err != nil {
		t.Fatalf("re-grant must succeed: %v", err)
	}
}

func TestGrantRole_NonAdmin(t *testing.T) {
	f := newRegistryFixture()

	err := f.svc.GrantRole(context.Background(), "acct_peon", "acct_new", domain.RoleProducer)
	if !errors.Is(err, domain.ErrUnauthorizedRole) {
		t.Fatalf("expected ErrUnauthorizedRole, got %v", err)
	}
	if f.roles.held["acct_new"][domain.RoleProducer] {
		t.Fatalf("role must not be granted by a non-admin")
	}
}

func TestRevokeRole(t *testing.T) {
	f := newRegistryFixture()
	f.roles.grant("acct_new", domain.RoleVerifier)

	if err := f.svc.RevokeRole(context.Background(), "acct_admin", "acct_new", domain.RoleVerifier); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.roles.held["acct_new"][domain.RoleVerifier] {
		t.Fatalf("role not revoked")
	}

	// Revoking an unheld role is a no-op, not an error.
	if err := f.svc.RevokeRole(context.Background(), "acct_admin", "acct_new", domain.RoleVerifier); err != nil {
		t.Fatalf("re-revoke must succeed: %v", err)
	}
}

func TestRevokeRole_NonAdmin(t *testing.T) {
	f := newRegistryFixture()
	f.roles.grant("acct_new", domain.RoleVerifier)

	err := f.svc.RevokeRole(context.Background(), "acct_peon", "acct_new", domain.RoleVerifier)
	if !errors.Is(err, domain.ErrUnauthorizedRole) {
		t.Fatalf("expected ErrUnauthorizedRole, got %v", err)
	}
}

func TestAdminCanExtendOwnRoles(t *testing.T) {
	f := newRegistryFixture()

	if err := f.svc.GrantRole(context.Background(), "acct_admin", "acct_admin", domain.RoleProducer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.roles.held["acct_admin"][domain.RoleProducer] {
		t.Fatalf("admin self-grant must take effect")
	}
}

func TestRoles(t *testing.T) {
	f := newRegistryFixture()
	f.roles.grant("acct_multi", domain.RoleProducer)
	f.roles.grant("acct_multi", domain.RoleVerifier)

	assignments, err := f.svc.Roles(context.Background(), "acct_multi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	held := make(map[domain.Role]bool)
	for _, a := range assignments {
		held[a.Role] = a.Held
	}
	if held[domain.RoleAdmin] || !held[domain.RoleProducer] || !held[domain.RoleVerifier] {
		t.Fatalf("unexpected membership: %+v", assignments)
	}
}

func TestSetIdentityAuthority(t *testing.T) {
	f := newRegistryFixture()

	err := f.svc.SetIdentityAuthority(context.Background(), "acct_admin", "http://authority-v2.internal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.store.endpoint != "http://authority-v2.internal" {
		t.Fatalf("endpoint not persisted, got %q", f.store.endpoint)
	}
	if f.switcher.endpoint != "http://authority-v2.internal" || f.switcher.calls != 1 {
		t.Fatalf("runtime pointer not swapped: %+v", f.switcher)
	}

	if len(f.sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.sink.events))
	}
	ev := f.sink.events[0]
	if ev.Type != domain.EventAuthorityUpdated || ev.Authority != "http://authority-v2.internal" || ev.Account != "acct_admin" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestSetIdentityAuthority_EmptyEndpoint(t *testing.T) {
	f := newRegistryFixture()

	err := f.svc.SetIdentityAuthority(context.Background(), "acct_admin", "")
	if !errors.Is(err, domain.ErrZeroAuthority) {
		t.Fatalf("expected ErrZeroAuthority, got %v", err)
	}
	if f.store.endpoint != "http://authority.internal" || f.switcher.calls != 0 {
		t.Fatalf("rejected update must leave the pointer in effect")
	}
	if len(f.sink.events) != 0 {
		t.Fatalf("rejected update must not emit events")
	}
}

func TestSetIdentityAuthority_NonAdmin(t *testing.T) {
	f := newRegistryFixture()

	err := f.svc.SetIdentityAuthority(context.Background(), "acct_peon", "http://rogue.example")
	if !errors.Is(err, domain.ErrUnauthorizedRole) {
		t.Fatalf("expected ErrUnauthorizedRole, got %v", err)
	}
	if f.store.endpoint != "http://authority.internal" {
		t.Fatalf("non-admin must not move the pointer")
	}
}

func TestSetIdentityAuthority_PersistFailureKeepsPointer(t *testing.T) {
	f := newRegistryFixture()
	f.store.setErr = errors.New("write failed")

	if err := f.svc.SetIdentityAuthority(context.Background(), "acct_admin", "http://authority-v2.internal"); err == nil {
		t.Fatalf("expected error when persistence fails")
	}
	if f.switcher.calls != 0 {
		t.Fatalf("runtime pointer must not swap when persistence fails")
	}
}
