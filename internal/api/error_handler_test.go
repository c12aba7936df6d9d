package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/veritrace/provenance/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return rec.Code, body.Error
}

func TestErrorHandler_Taxonomy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"no credential", domain.ErrNoIdentityCredential, http.StatusForbidden},
		{"suspended", domain.ErrSuspended, http.StatusForbidden},
		{"attribute expired", &domain.AttributeExpiredError{Attribute: "kyc", Expiry: time.Unix(1700000000, 0)}, http.StatusForbidden},
		{"unauthorized role", domain.NewRoleError(domain.RoleProducer), http.StatusForbidden},
		{"zero authority", domain.ErrZeroAuthority, http.StatusBadRequest},
		{"invalid step", domain.ErrInvalidStep, http.StatusUnprocessableEntity},
		{"reward overflow", domain.ErrRewardOverflow, http.StatusUnprocessableEntity},
		{"product not found", domain.ErrProductNotFound, http.StatusNotFound},
		{"unknown role", domain.ErrUnknownRole, http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := renderError(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d (%q)", tc.code, code, msg)
			}
			if msg == "" {
				t.Fatalf("error body must carry a message")
			}
		})
	}
}

func TestErrorHandler_WrappedErrors(t *testing.T) {
	// Services wrap taxonomy errors with context; the mapping must survive.
	code, _ := renderError(t, fmt.Errorf("verify product: %w", domain.ErrInvalidStep))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for wrapped ErrInvalidStep, got %d", code)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if code != http.StatusUnauthorized || msg != "missing authorization header" {
		t.Fatalf("unexpected result: %d %q", code, msg)
	}
}

func TestErrorHandler_UnexpectedError(t *testing.T) {
	code, msg := renderError(t, errors.New("mongo: socket closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal details must not leak, got %q", msg)
	}
}
