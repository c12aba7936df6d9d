package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxAccount extracts the on-ledger account injected by the Auth middleware
// and fast-fails before any service call: a token without an account claim
// is structurally valid but operationally unusable.
func ctxAccount(c echo.Context) (string, error) {
	account, _ := c.Get("account").(string)
	if account == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "token missing ledger account")
	}
	return account, nil
}
