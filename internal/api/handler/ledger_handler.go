package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/veritrace/provenance/internal/core/ports"
)

// LedgerHandler handles HTTP requests for product ledger operations.
type LedgerHandler struct {
	service ports.LedgerService
}

func NewLedgerHandler(service ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Add handles POST /v1/products.
//
// @Summary      Add a product to the ledger
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addProductRequest  true  "Product details"
// @Success      201   {object}  addProductResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/products [post]
func (h *LedgerHandler) Add(c echo.Context) error {
	var req addProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	result, err := h.service.AddProduct(c.Request().Context(), ports.AddProductInput{
		ProductID:           req.ProductID,
		Producer:            account,
		ProductionTimestamp: req.ProductionTimestamp,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, addProductResponse{
		ProductID: result.ProductID,
		Producer:  result.Producer,
		Status:    result.Status,
		CreatedAt: result.CreatedAt,
		Links:     productLinks{Self: "/v1/products/" + result.ProductID},
	})
}

// Verify handles POST /v1/products/:product_id/verifications.
//
// @Summary      Mark a verification step on a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  path      string                true  "Product identifier"
// @Param        body        body      verifyProductRequest  true  "Step and reward"
// @Success      200         {object}  verifyProductResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/products/{product_id}/verifications [post]
func (h *LedgerHandler) Verify(c echo.Context) error {
	var req verifyProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	result, err := h.service.VerifyProduct(c.Request().Context(), ports.VerifyProductInput{
		ProductID: c.Param("product_id"),
		Verifier:  account,
		Step:      req.Step,
		Reward:    req.Reward,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyProductResponse{
		ProductID:  result.ProductID,
		Step:       result.Step,
		Reward:     result.Reward,
		Status:     result.Status,
		VerifiedAt: result.VerifiedAt,
	})
}

// Get handles GET /v1/products/:product_id.
//
// @Summary      Get a product by identifier
// @Tags         products
// @Produce      json
// @Param        product_id  path      string  true  "Product identifier"
// @Success      200         {object}  getProductResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/products/{product_id} [get]
func (h *LedgerHandler) Get(c echo.Context) error {
	detail, err := h.service.GetProductDetails(c.Request().Context(), c.Param("product_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, getProductResponse{
		ProductID:           detail.ProductID,
		Producer:            detail.Producer,
		ProductionTimestamp: detail.ProductionTimestamp,
		VerificationSteps:   detail.VerificationSteps,
		Reward:              detail.Reward,
		Status:              detail.Status,
		CreatedAt:           detail.CreatedAt,
		UpdatedAt:           detail.UpdatedAt,
		Links:               productLinks{Self: "/v1/products/" + detail.ProductID},
	})
}

// Eligibility handles GET /v1/accounts/:account/eligibility.
//
// @Summary      Pre-check whether an account may mutate the ledger
// @Tags         accounts
// @Produce      json
// @Param        account  path      string  true  "On-ledger account"
// @Success      200      {object}  eligibilityResponse
// @Router       /v1/accounts/{account}/eligibility [get]
func (h *LedgerHandler) Eligibility(c echo.Context) error {
	result, err := h.service.AccountEligible(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, eligibilityResponse{
		Account:  result.Account,
		Eligible: result.Eligible,
		Reason:   result.Reason,
	})
}
