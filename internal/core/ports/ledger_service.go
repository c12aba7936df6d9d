package ports

import (
	"context"
	"time"
)

// AddProductInput carries all data needed to create a product record.
type AddProductInput struct {
	ProductID           string
	Producer            string // on-ledger account of the caller
	ProductionTimestamp int64
}

// AddProductResult is returned by the service after creating a product.
type AddProductResult struct {
	ProductID string
	Producer  string
	Status    string
	CreatedAt time.Time
}

// VerifyProductInput carries the parameters of one verification marking.
type VerifyProductInput struct {
	ProductID string
	Verifier  string // on-ledger account of the caller
	Step      int
	Reward    uint64
}

// VerifyProductResult reports the post-verification view of the product.
type VerifyProductResult struct {
	ProductID  string
	Step       int
	Reward     uint64 // cumulative total after this call
	Status     string
	VerifiedAt time.Time
}

// ProductDetail is the full product view returned by GetProductDetails.
type ProductDetail struct {
	ProductID           string
	Producer            string
	ProductionTimestamp int64
	VerificationSteps   []bool
	Reward              uint64
	Status              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EligibilityResult reports whether an account passes the identity gate,
// and if not, why.
type EligibilityResult struct {
	Account  string
	Eligible bool
	Reason   string // empty when eligible
}

// LedgerService defines the product-ledger use cases.
type LedgerService interface {
	AddProduct(ctx context.Context, input AddProductInput) (*AddProductResult, error)
	VerifyProduct(ctx context.Context, input VerifyProductInput) (*VerifyProductResult, error)
	GetProductDetails(ctx context.Context, productID string) (*ProductDetail, error)
	AccountEligible(ctx context.Context, account string) (*EligibilityResult, error)
}
