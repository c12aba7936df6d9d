package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/veritrace/provenance/internal/api/metrics"
	"github.com/veritrace/provenance/internal/core/domain"
	"github.com/veritrace/provenance/internal/core/ports"
)

// LedgerService implements the product ledger and verification engine.
//
// Mutating operations run under a single mutex: one operation fully
// completes its reads, precondition checks, writes, and event emission
// before the next begins. That serialization is the whole concurrency
// contract of the ledger; the repositories never see interleaved writes
// for the same record.
type LedgerService struct {
	mu       sync.Mutex
	products ports.ProductRepository
	roles    ports.RoleRepository
	gate     *IdentityGate
	events   ports.EventSink
	steps    int
	log      zerolog.Logger
}

func NewLedgerService(
	products ports.ProductRepository,
	roles ports.RoleRepository,
	gate *IdentityGate,
	events ports.EventSink,
	steps int,
	log zerolog.Logger,
) *LedgerService {
	if steps <= 0 {
		steps = domain.DefaultVerificationSteps
	}
	return &LedgerService{
		products: products,
		roles:    roles,
		gate:     gate,
		events:   events,
		steps:    steps,
		log:      log,
	}
}

// authorize is the precondition pipeline run before every mutating
// operation: identity gate first, then role membership, both evaluated
// fresh per call.
func (s *LedgerService) authorize(ctx context.Context, account string, role domain.Role) error {
	if err := s.gate.Check(ctx, account); err != nil {
		return err
	}
	held, err := s.roles.HasRole(ctx, account, role)
	if err != nil {
		return fmt.Errorf("role check: %w", err)
	}
	if !held {
		return domain.NewRoleError(role)
	}
	return nil
}

// AddProduct creates a product record keyed by ProductID, overwriting any
// existing record at that key. Steps start all-false with reward zero.
func (s *LedgerService) AddProduct(ctx context.Context, input ports.AddProductInput) (*ports.AddProductResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Preconditions: eligible caller holding the Producer role.
	if err := s.authorize(ctx, input.Producer, domain.RoleProducer); err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("add_product", errorReason(err)).Inc()
		return nil, err
	}

	// 2. Build and persist the fresh record.
	now := time.Now().UTC()
	product := domain.NewProduct(input.ProductID, input.Producer, input.ProductionTimestamp, s.steps, now)
	if err := s.products.Save(ctx, product); err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("add_product", "storage").Inc()
		s.log.Error().Err(err).Str("product_id", input.ProductID).Msg("failed to save product")
		return nil, fmt.Errorf("add product: %w", err)
	}

	// 3. Trace event is the final side effect of the committed operation.
	s.events.Emit(domain.TraceEvent{
		Type:      domain.EventProductAdded,
		ProductID: product.ProductID,
		Account:   product.Producer,
		Timestamp: now,
	})

	metrics.ProductsCreatedTotal.Inc()
	s.log.Info().
		Str("product_id", product.ProductID).
		Str("producer", product.Producer).
		Msg("product added")

	return &ports.AddProductResult{
		ProductID: product.ProductID,
		Producer:  product.Producer,
		Status:    string(product.Status()),
		CreatedAt: product.CreatedAt,
	}, nil
}

// VerifyProduct marks one verification step and accumulates the reward.
// Re-verifying an already-set step is allowed: the flag stays true, the
// reward still accumulates, and an event is still emitted.
func (s *LedgerService) VerifyProduct(ctx context.Context, input ports.VerifyProductInput) (*ports.VerifyProductResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Preconditions: eligible caller holding the Verifier role.
	if err := s.authorize(ctx, input.Verifier, domain.RoleVerifier); err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("verify_product", errorReason(err)).Inc()
		return nil, err
	}

	// 2. Load the record under verification.
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("verify_product", errorReason(err)).Inc()
		return nil, err
	}

	// 3. Bounds-checked flag set plus checked reward accumulation.
	now := time.Now().UTC()
	if err := product.Verify(input.Step, input.Reward, now); err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("verify_product", errorReason(err)).Inc()
		return nil, err
	}

	// 4. Persist the mutated flags and total.
	if err := s.products.Update(ctx, product); err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("verify_product", "storage").Inc()
		s.log.Error().Err(err).Str("product_id", product.ProductID).Msg("failed to update product")
		return nil, fmt.Errorf("verify product: %w", err)
	}

	// 5. Emit the trace event.
	step := input.Step
	reward := input.Reward
	s.events.Emit(domain.TraceEvent{
		Type:      domain.EventProductVerified,
		ProductID: product.ProductID,
		Account:   input.Verifier,
		Timestamp: now,
		Step:      &step,
		Reward:    &reward,
	})

	metrics.VerificationsTotal.WithLabelValues(fmt.Sprintf("%d", input.Step)).Inc()
	s.log.Info().
		Str("product_id", product.ProductID).
		Str("verifier", input.Verifier).
		Int("step", input.Step).
		Uint64("reward", input.Reward).
		Msg("product verified")

	return &ports.VerifyProductResult{
		ProductID:  product.ProductID,
		Step:       input.Step,
		Reward:     product.Reward,
		Status:     string(product.Status()),
		VerifiedAt: now,
	}, nil
}

// GetProductDetails returns the full record, or ErrProductNotFound when
// the key has never been written. Open to all callers.
func (s *LedgerService) GetProductDetails(ctx context.Context, productID string) (*ports.ProductDetail, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ports.ProductDetail{
		ProductID:           product.ProductID,
		Producer:            product.Producer,
		ProductionTimestamp: product.ProductionTimestamp,
		VerificationSteps:   product.VerificationSteps,
		Reward:              product.Reward,
		Status:              string(product.Status()),
		CreatedAt:           product.CreatedAt,
		UpdatedAt:           product.UpdatedAt,
	}, nil
}

// AccountEligible exposes the identity gate predicate as a read.
func (s *LedgerService) AccountEligible(ctx context.Context, account string) (*ports.EligibilityResult, error) {
	result, err := s.gate.Eligibility(ctx, account)
	if err != nil {
		return nil, err
	}
	if result.Eligible {
		metrics.EligibilityChecksTotal.WithLabelValues("eligible").Inc()
	} else {
		metrics.EligibilityChecksTotal.WithLabelValues(result.Reason).Inc()
	}
	return result, nil
}

// errorReason maps taxonomy errors to short metric labels.
func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoIdentityCredential):
		return "no_identity_credential"
	case errors.Is(err, domain.ErrSuspended):
		return "suspended"
	case errors.Is(err, domain.ErrUnauthorizedRole):
		return "unauthorized_role"
	case errors.Is(err, domain.ErrInvalidStep):
		return "invalid_step"
	case errors.Is(err, domain.ErrRewardOverflow):
		return "reward_overflow"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	default:
		return "internal"
	}
}
