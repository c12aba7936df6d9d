package domain

import (
	"errors"
	"time"
)

// ProductStatus is the derived lifecycle view over a product's verification
// flags. It is computed on read and never stored.
type ProductStatus string

const (
	StatusCreated           ProductStatus = "created"
	StatusPartiallyVerified ProductStatus = "partially_verified"
	StatusFullyVerified     ProductStatus = "fully_verified"
)

// DefaultVerificationSteps is the length of the verification sequence when
// no explicit configuration is given.
const DefaultVerificationSteps = 3

var ErrProductNotFound = errors.New("product not found")
var ErrInvalidStep = errors.New("verification step out of range")
var ErrRewardOverflow = errors.New("reward accumulator overflow")

// Product is the core aggregate root: one supply-chain item and its
// per-step verification progress.
type Product struct {
	ProductID           string    `json:"product_id" bson:"_id"`
	Producer            string    `json:"producer" bson:"producer"`
	ProductionTimestamp int64     `json:"production_timestamp" bson:"production_timestamp"`
	VerificationSteps   []bool    `json:"verification_steps" bson:"verification_steps"`
	Reward              uint64    `json:"reward" bson:"reward"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" bson:"updated_at"`
}

// NewProduct builds a fresh product record with steps verification flags,
// all false, and a zero reward. The flag sequence length is fixed for the
// lifetime of the record.
func NewProduct(productID, producer string, productionTimestamp int64, steps int, now time.Time) *Product {
	if steps <= 0 {
		steps = DefaultVerificationSteps
	}
	return &Product{
		ProductID:           productID,
		Producer:            producer,
		ProductionTimestamp: productionTimestamp,
		VerificationSteps:   make([]bool, steps),
		Reward:              0,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// Status derives the lifecycle state from the verification flags.
func (p *Product) Status() ProductStatus {
	set := 0
	for _, v := range p.VerificationSteps {
		if v {
			set++
		}
	}
	switch {
	case set == 0:
		return StatusCreated
	case set == len(p.VerificationSteps):
		return StatusFullyVerified
	default:
		return StatusPartiallyVerified
	}
}

// Verify marks one step as verified and accumulates reward with checked
// arithmetic. Re-verifying an already-set step is permitted: the flag is
// unchanged but the reward still accumulates.
func (p *Product) Verify(step int, reward uint64, now time.Time) error {
	if step < 0 || step >= len(p.VerificationSteps) {
		return ErrInvalidStep
	}
	next, ok := checkedAdd(p.Reward, reward)
	if !ok {
		return ErrRewardOverflow
	}
	p.VerificationSteps[step] = true
	p.Reward = next
	p.UpdatedAt = now
	return nil
}

// checkedAdd returns a+b and reports whether the sum fits in uint64.
func checkedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}
