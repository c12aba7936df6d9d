package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/veritrace/provenance/internal/core/domain"
	"github.com/veritrace/provenance/internal/core/ports"
)

type stubRegistryService struct {
	grantFn  func(ctx context.Context, actor, account string, role domain.Role) error
	revokeFn func(ctx context.Context, actor, account string, role domain.Role) error
	rolesFn  func(ctx context.Context, account string) ([]ports.RoleAssignment, error)
	setFn    func(ctx context.Context, actor, endpoint string) error
}

func (s *stubRegistryService) GrantRole(ctx context.Context, actor, account string, role domain.Role) error {
	return s.grantFn(ctx, actor, account, role)
}

func (s *stubRegistryService) RevokeRole(ctx context.Context, actor, account string, role domain.Role) error {
	return s.revokeFn(ctx, actor, account, role)
}

func (s *stubRegistryService) HasRole(_ context.Context, _ string, _ domain.Role) (bool, error) {
	return false, nil
}

func (s *stubRegistryService) Roles(ctx context.Context, account string) ([]ports.RoleAssignment, error) {
	return s.rolesFn(ctx, account)
}

func (s *stubRegistryService) SetIdentityAuthority(ctx context.Context, actor, endpoint string) error {
	return s.setFn(ctx, actor, endpoint)
}

func TestRegistryHandler_GrantRole(t *testing.T) {
	var gotActor, gotAccount string
	var gotRole domain.Role
	svc := &stubRegistryService{
		grantFn: func(_ context.Context, actor, account string, role domain.Role) error {
			gotActor, gotAccount, gotRole = actor, account, role
			return nil
		},
	}
	h := NewRegistryHandler(svc)

	c, rec := newLedgerContext(t, http.MethodPost, "/v1/registry/roles",
		`{"account":"acct_new","role":"producer"}`, "acct_admin")

	if err := h.GrantRole(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotActor != "acct_admin" || gotAccount != "acct_new" || gotRole != domain.RoleProducer {
		t.Fatalf("unexpected service input: %s %s %s", gotActor, gotAccount, gotRole)
	}
}

func TestRegistryHandler_GrantRole_UnknownRole(t *testing.T) {
	h := NewRegistryHandler(&stubRegistryService{})

	c, _ := newLedgerContext(t, http.MethodPost, "/v1/registry/roles",
		`{"account":"acct_new","role":"auditor"}`, "acct_admin")

	// The oneof validator rejects before ParseRole is reached.
	err := h.GrantRole(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestRegistryHandler_RevokeRole_ForbiddenPassesThrough(t *testing.T) {
	svc := &stubRegistryService{
		revokeFn: func(_ context.Context, _, _ string, _ domain.Role) error {
			return domain.NewRoleError(domain.RoleAdmin)
		},
	}
	h := NewRegistryHandler(svc)

	c, _ := newLedgerContext(t, http.MethodDelete, "/v1/registry/roles",
		`{"account":"acct_new","role":"verifier"}`, "acct_peon")

	if err := h.RevokeRole(c); !errors.Is(err, domain.ErrUnauthorizedRole) {
		t.Fatalf("expected ErrUnauthorizedRole, got %v", err)
	}
}

func TestRegistryHandler_Roles(t *testing.T) {
	svc := &stubRegistryService{
		rolesFn: func(_ context.Context, _ string) ([]ports.RoleAssignment, error) {
			return []ports.RoleAssignment{
				{Role: domain.RoleAdmin, Held: false},
				{Role: domain.RoleProducer, Held: true},
				{Role: domain.RoleVerifier, Held: false},
			}, nil
		},
	}
	h := NewRegistryHandler(svc)

	c, rec := newLedgerContext(t, http.MethodGet, "/v1/registry/roles/acct_multi", "", "")
	c.SetParamNames("account")
	c.SetParamValues("acct_multi")

	if err := h.Roles(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp rolesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Account != "acct_multi" || len(resp.Roles) != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRegistryHandler_SetAuthority(t *testing.T) {
	var gotEndpoint string
	svc := &stubRegistryService{
		setFn: func(_ context.Context, _, endpoint string) error {
			gotEndpoint = endpoint
			return nil
		},
	}
	h := NewRegistryHandler(svc)

	c, rec := newLedgerContext(t, http.MethodPut, "/v1/registry/authority",
		`{"endpoint":"http://authority-v2.internal"}`, "acct_admin")

	if err := h.SetAuthority(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotEndpoint != "http://authority-v2.internal" {
		t.Fatalf("unexpected endpoint: %q", gotEndpoint)
	}
}

func TestRegistryHandler_SetAuthority_NotAURL(t *testing.T) {
	h := NewRegistryHandler(&stubRegistryService{})

	c, _ := newLedgerContext(t, http.MethodPut, "/v1/registry/authority",
		`{"endpoint":"not a url"}`, "acct_admin")

	err := h.SetAuthority(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
