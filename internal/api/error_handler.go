package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/veritrace/provenance/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the ledger error taxonomy to deterministic HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Ledger taxonomy → deterministic HTTP codes. Every precondition
	// failure aborts the whole call; nothing here signals partial state.
	switch {
	case errors.Is(err, domain.ErrNoIdentityCredential):
		return http.StatusForbidden, "account holds no identity credential"
	case errors.Is(err, domain.ErrSuspended):
		return http.StatusForbidden, "account credential is suspended"
	case errors.Is(err, domain.ErrAttributeExpired):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUnauthorizedRole):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrZeroAuthority):
		return http.StatusBadRequest, "identity authority endpoint must not be empty"
	case errors.Is(err, domain.ErrInvalidStep):
		return http.StatusUnprocessableEntity, "verification step out of range"
	case errors.Is(err, domain.ErrRewardOverflow):
		return http.StatusUnprocessableEntity, "reward accumulator overflow"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, domain.ErrUnknownRole):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
