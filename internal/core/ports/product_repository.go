package ports

import (
	"context"

	"github.com/veritrace/provenance/internal/core/domain"
)

// ProductRepository defines persistence operations for product records.
type ProductRepository interface {
	// Save writes the product record keyed by its ProductID, replacing any
	// existing record at that key.
	Save(ctx context.Context, p *domain.Product) error
	// FindByID retrieves a product, or domain.ErrProductNotFound when the
	// key has never been written.
	FindByID(ctx context.Context, productID string) (*domain.Product, error)
	// Update persists the mutated verification flags and reward of an
	// existing record.
	Update(ctx context.Context, p *domain.Product) error
}
