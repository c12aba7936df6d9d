package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type addProductRequest struct {
	ProductID           string `json:"product_id"           validate:"required"`
	ProductionTimestamp int64  `json:"production_timestamp" validate:"required"`
}

type verifyProductRequest struct {
	Step   int    `json:"step"   validate:"gte=0"`
	Reward uint64 `json:"reward"`
}

// --- Response types ---
// Response-only types owned by the transport layer, intentionally separate
// from ports/domain types so the JSON contract is not coupled to internal
// service changes.

type productLinks struct {
	Self string `json:"self"`
}

type addProductResponse struct {
	ProductID string       `json:"product_id"`
	Producer  string       `json:"producer"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Links     productLinks `json:"_links"`
}

type verifyProductResponse struct {
	ProductID  string    `json:"product_id"`
	Step       int       `json:"step"`
	Reward     uint64    `json:"reward"` // cumulative total after this call
	Status     string    `json:"status"`
	VerifiedAt time.Time `json:"verified_at"`
}

type getProductResponse struct {
	ProductID           string       `json:"product_id"`
	Producer            string       `json:"producer"`
	ProductionTimestamp int64        `json:"production_timestamp"`
	VerificationSteps   []bool       `json:"verification_steps"`
	Reward              uint64       `json:"reward"`
	Status              string       `json:"status"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
	Links               productLinks `json:"_links"`
}

type eligibilityResponse struct {
	Account  string `json:"account"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}
