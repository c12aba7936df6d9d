package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/veritrace/provenance/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, email, account string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, email, account string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, email, account)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, username, _, _, account string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Username: username, Account: account}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newLedgerContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","password":"s3cret","account":"acct_alice"}`, "")

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.User == nil || resp.User.Account != "acct_alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, _, _, _, _ string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newLedgerContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","password":"pw","account":"acct_alice"}`, "")

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_InvalidInput(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, _, _, _, _ string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newLedgerContext(t, http.MethodPost, "/auth/register", `{"username":"alice"}`, "")

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, username, _ string) (string, *domain.User, error) {
			return "token-123", &domain.User{Username: username, Account: "acct_alice"}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newLedgerContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"s3cret"}`, "")

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Token != "token-123" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newLedgerContext(t, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"wrong"}`, "")

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
			return "", nil, domain.ErrUserNotFound
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newLedgerContext(t, http.MethodPost, "/auth/login",
		`{"username":"ghost","password":"pw"}`, "")

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
