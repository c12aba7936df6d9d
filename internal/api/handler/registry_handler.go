package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/veritrace/provenance/internal/core/domain"
	"github.com/veritrace/provenance/internal/core/ports"
)

// RegistryHandler handles HTTP requests for the access-control registry.
type RegistryHandler struct {
	service ports.RegistryService
}

func NewRegistryHandler(service ports.RegistryService) *RegistryHandler {
	return &RegistryHandler{service: service}
}

type roleMutationRequest struct {
	Account string `json:"account" validate:"required"`
	Role    string `json:"role"    validate:"required,oneof=admin producer verifier"`
}

type roleAssignmentResponse struct {
	Role string `json:"role"`
	Held bool   `json:"held"`
}

type rolesResponse struct {
	Account string                   `json:"account"`
	Roles   []roleAssignmentResponse `json:"roles"`
}

type setAuthorityRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}

// GrantRole handles POST /v1/registry/roles.
//
// @Summary      Grant a role to an account (admin only)
// @Tags         registry
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleMutationRequest  true  "Account and role"
// @Success      204   "granted (idempotent)"
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/registry/roles [post]
func (h *RegistryHandler) GrantRole(c echo.Context) error {
	return h.mutateRole(c, h.service.GrantRole)
}

// RevokeRole handles DELETE /v1/registry/roles.
//
// @Summary      Revoke a role from an account (admin only)
// @Tags         registry
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleMutationRequest  true  "Account and role"
// @Success      204   "revoked (idempotent)"
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/registry/roles [delete]
func (h *RegistryHandler) RevokeRole(c echo.Context) error {
	return h.mutateRole(c, h.service.RevokeRole)
}

func (h *RegistryHandler) mutateRole(c echo.Context, op func(ctx context.Context, actor, account string, role domain.Role) error) error {
	var req roleMutationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxAccount(c)
	if err != nil {
		return err
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	if err := op(c.Request().Context(), actor, req.Account, role); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Roles handles GET /v1/registry/roles/:account.
//
// @Summary      List role membership for an account
// @Tags         registry
// @Produce      json
// @Param        account  path      string  true  "On-ledger account"
// @Success      200      {object}  rolesResponse
// @Router       /v1/registry/roles/{account} [get]
func (h *RegistryHandler) Roles(c echo.Context) error {
	account := c.Param("account")

	assignments, err := h.service.Roles(c.Request().Context(), account)
	if err != nil {
		return err
	}

	out := rolesResponse{Account: account}
	for _, a := range assignments {
		out.Roles = append(out.Roles, roleAssignmentResponse{Role: string(a.Role), Held: a.Held})
	}
	return c.JSON(http.StatusOK, out)
}

// SetAuthority handles PUT /v1/registry/authority.
//
// @Summary      Update the identity authority endpoint (admin only)
// @Tags         registry
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setAuthorityRequest  true  "New authority endpoint"
// @Success      204   "updated"
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/registry/authority [put]
func (h *RegistryHandler) SetAuthority(c echo.Context) error {
	var req setAuthorityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxAccount(c)
	if err != nil {
		return err
	}

	if err := h.service.SetIdentityAuthority(c.Request().Context(), actor, req.Endpoint); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
